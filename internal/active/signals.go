package active

// Closed-posting signals, matched case-insensitively as substrings of the
// page body. The literal set is heuristic tuning data, kept here as
// immutable configuration rather than spread through the classifier.
var closedSignals = []string{
	"no longer available",
	"position has been filled",
	"job closed",
	"not accepting applications",
	"no longer accepting applications",
	"requisition closed",
	"this posting has expired",
	"job listing is no longer",
	"job has been filled",
	"position is no longer available",
	"this job is no longer",
	"listing has been removed",
	"role has been filled",
}

// Apply-presence signals. Their absence never blocks an ACTIVE verdict;
// a hit only sharpens the recorded reason.
var applySignals = []string{
	"apply now",
	"apply for this",
	"submit application",
	"apply online",
	`type="submit"`,
}
