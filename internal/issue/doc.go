// Package issue turns a GitHub plugin-submission issue into a Submission.
//
// It has two halves. The event gate (ReadIssueBody) decides whether the
// triggering event is an actionable submission at all and returns the issue
// body, or a *SkipError when it is not. The extractor (Extract) parses the
// "### heading" sections GitHub issue forms render and builds an immutable
// Submission, failing with a *MalformedSubmissionError when a required
// field is absent. Both are free of side effects besides reading the event
// payload through the supplied filesystem.
package issue
