package parse

import "regexp"

const (
	callEndedMarker = "[Call ended]"
	callMarker      = "[Call]"
	removedMarker   = "This message has been removed."
)

var (
	fileSentRe = regexp.MustCompile(`^Sent file (.+)\.$`)
	leftRe     = regexp.MustCompile(`^.+ has left the conversation\.$`)
	changedRe  = regexp.MustCompile(`^Changed the conversation .+\.$`)
	meRe       = regexp.MustCompile(`^/me (.+)$`)
)

// Classify assigns a kind to a raw message and returns its normalized
// content. Rules are tried in order and the first match wins.
func Classify(sender, content string) (Kind, string) {
	switch {
	case content == callEndedMarker:
		return KindCallEnd, content
	case content == callMarker:
		return KindCall, content
	case sender == "":
		return KindStatus, content
	case content == removedMarker:
		return KindRemoved, ""
	}
	if m := fileSentRe.FindStringSubmatch(content); m != nil {
		return KindFile, m[1]
	}
	if leftRe.MatchString(content) || changedRe.MatchString(content) {
		return KindSystem, content
	}
	if m := meRe.FindStringSubmatch(content); m != nil {
		return KindStatus, m[1]
	}
	return KindText, content
}
