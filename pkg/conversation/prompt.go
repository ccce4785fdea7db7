package conversation

import (
	"fmt"
	"strings"

	"solace/pkg/persona"
	"solace/pkg/utils"
)

// historyWindow bounds how many recent turns the continuation prompt
// carries. The full history never goes back to the model.
const historyWindow = 4

// turnPreview bounds how much of a single turn the history summary quotes.
const turnPreview = 100

func systemMessage(p persona.Persona, origin Origin) string {
	return fmt.Sprintf(`You are taking on a specific conversational persona that was designed for this user.

PERSONA DEFINITION:
%s

ORIGINAL CONTEXT:
This persona was created based on the user sharing: "%s"
Their emotional state included: %s

INSTRUCTIONS:
- Embody this persona consistently throughout the conversation
- Maintain the personality, communication style, and approach defined above
- Stay true to the core essence and specialization of this persona
- Use the conversation patterns and support methods outlined
- Remember this persona was specifically designed to help this particular user

Begin the conversation as this persona, maintaining authenticity and consistency.`,
		p.RawDefinition, origin.Text, strings.Join(origin.Emotions, ", "))
}

func continuationPrompt(conv Conversation, newInput string) string {
	p := conv.Persona
	return fmt.Sprintf(`CONTINUE AS YOUR ESTABLISHED PERSONA

PERSONA REMINDER:
- Core Essence: %s
- Communication Style: %s
- Support Method: %s

CONVERSATION CONTEXT:
%s

NEW USER INPUT: "%s"

RESPONSE GUIDELINES:
- Stay true to your established persona personality
- Build on the emotional connection you've already created
- Respond in the same style and approach you've been using
- Continue providing the specific type of support this persona is designed for
- Let the conversation deepen naturally while maintaining persona consistency

Respond as the same supportive presence they've been talking to.`,
		p.Trait("core_essence"), p.Trait("communication_style"), p.Trait("support_method"),
		historySummary(conv.History), newInput)
}

// historySummary quotes the most recent turns, truncated, numbered from
// the start of the window.
func historySummary(history []Turn) string {
	if len(history) == 0 {
		return "This is the beginning of your conversation with this user."
	}

	window := history
	if len(window) > historyWindow {
		window = window[len(window)-historyWindow:]
	}

	var b strings.Builder
	b.WriteString("Previous conversation:\n")
	for i, turn := range window {
		who := "User"
		if turn.Speaker == SpeakerPersona {
			who = "You (in your persona)"
		}
		fmt.Fprintf(&b, "%d. %s: %s\n", i+1, who, utils.LimitStr(turn.Text, turnPreview))
	}
	return strings.TrimRight(b.String(), "\n")
}
