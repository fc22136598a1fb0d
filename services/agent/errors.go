// File: services/agent/errors.go
package agent

import (
	"errors"

	"calagent/services/calcom"
	"calagent/services/conversation"
)

// userFacingMessage translates an internal failure into reply text. Raw
// provider error codes never reach the user.
func userFacingMessage(err error) string {
	if errors.Is(err, conversation.ErrNotFound) {
		return "I couldn't find that conversation."
	}
	switch calcom.KindOf(err) {
	case calcom.KindAuth:
		return "I'm having trouble authenticating with the calendar service. Please contact support."
	case calcom.KindNotFound:
		return "I couldn't find that booking. Could you double-check the booking ID?"
	case calcom.KindValidation:
		return "Some of those details didn't look right to the calendar service. Could you rephrase or correct them?"
	case calcom.KindNoAvailableSlot:
		return "That time isn't available. Would you like to try a different time?"
	case calcom.KindRemoteServer, calcom.KindNetwork:
		return "The calendar service seems to be having a temporary issue. Please try again in a moment."
	}
	return "Something went wrong on my side. Please try again."
}
