package schema

type EmotionReport struct {
	BasicEmotions     []ReportedEmotion `json:"basic_emotions" jsonschema_description:"Emotions detected in the text, chosen only from Plutchik's 8 basic emotions"`
	CompanionResponse string            `json:"companion_response" jsonschema_description:"A warm, friend-like reply to the user's sharing (40-60 words)"`
}

type ReportedEmotion struct {
	Name      string `json:"name" jsonschema:"enum=joy,enum=trust,enum=fear,enum=surprise,enum=sadness,enum=disgust,enum=anger,enum=anticipation" jsonschema_description:"Basic emotion name"`
	Intensity int    `json:"intensity" jsonschema:"minimum=1,maximum=5" jsonschema_description:"Intensity from 1 (very mild) to 5 (very strong)"`
	Reason    string `json:"reason" jsonschema_description:"One gentle sentence explaining why this emotion was detected"`
}
