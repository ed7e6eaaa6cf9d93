// Copyright (C) 2025 Beaconforge
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.

package render

// Fixed replies for terminal and error states.

// Completed is shown after the completion pipeline runs.
func Completed() Reply {
	return Reply{
		Text:    "🎉 **Thank you for completing the onboarding form!**\n\nYour responses have been recorded and your roles have been updated. Welcome aboard!",
		Replace: true,
	}
}

// Cancelled confirms that the form and all answers were removed.
func Cancelled() Reply {
	return Reply{
		Text:    "Your form has been deleted. You can start over at any time.",
		Replace: true,
	}
}

// AlreadyCompleted rejects a start from a user who already finished.
func AlreadyCompleted() Reply {
	return Reply{
		Text: "You have already completed the onboarding form. If you need to make changes, please contact a moderator.",
	}
}

// ActiveExists rejects a start while a form is in progress.
func ActiveExists() Reply {
	return Reply{
		Text: "You already have a form in progress. Please finish or delete it before starting a new one.",
	}
}

// SessionExpired is shown when an interaction arrives for a session
// that no longer exists.
func SessionExpired() Reply {
	return Reply{
		Text:    "Your form session has expired. Please start the form again.",
		Replace: true,
	}
}

// Busy rejects interactions that arrive while completion is running.
func Busy() Reply {
	return Reply{
		Text: "Your form is being submitted. Please wait a moment.",
	}
}

// Apology is the generic failure reply.
func Apology() Reply {
	return Reply{
		Text: "Something went wrong processing your response. Please try again.",
	}
}
