// Package wizard is the screen logic around the form engine. It resolves a
// screen, runs the engine against the scoped view of a case, and on an
// accepted submission applies the update, moves the section status and
// persists the case. Rejected submissions leave the case untouched and hand
// back the raw payload together with the field errors for redisplay.
package wizard
