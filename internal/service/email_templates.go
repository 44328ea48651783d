package service

import "fmt"

func allyInviteEmailTemplate(fromName, appURL, appName string) (string, string) {
	if fromName == "" {
		fromName = "Someone"
	}
	subject := fmt.Sprintf("%s wants you as their ally on %s", fromName, appName)
	body := fmt.Sprintf(`%s asked you to be their accountability ally.

Allies see each other's public thoughts, goals and today's missions, and can cheer each other on.

Open %s to confirm the alliance:
%s

If you don't know this person, ignore this email. Nothing changes until you confirm.

Best,
The %s Team`, fromName, appName, appURL, appName)

	return subject, body
}

func allyConfirmedEmailTemplate(allyName, appURL, appName string) (string, string) {
	if allyName == "" {
		allyName = "Your invitee"
	}
	subject := fmt.Sprintf("%s is now your ally", allyName)
	body := fmt.Sprintf(`%s confirmed your alliance on %s.

You'll now see each other's progress as it happens:
%s

Best,
The %s Team`, allyName, appName, appURL, appName)

	return subject, body
}

func accountDeletedEmailTemplate(appName string) (string, string) {
	subject := fmt.Sprintf("Your %s account has been deleted", appName)
	body := fmt.Sprintf(`Your account and all of its thoughts, missions, goals and visions have been permanently deleted.

If this wasn't you, reply to this email right away.

Best,
The %s Team`, appName)

	return subject, body
}
