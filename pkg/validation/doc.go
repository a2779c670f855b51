// Package validation implements lead-capture form validation over a
// dom.Document. A Validator evaluates an ordered rule table (required, email,
// phone, property identifier) against each field, skips honeypot fields, checks
// paired email confirmation groups, and reflects the verdict in the markup: the
// nearest field container gets an error class plus a single message element,
// and both are cleared before a field is evaluated again so repeated runs over
// unchanged input leave identical markup behind.
//
// Missing container structure fails open: a field with no container passes.
// Validation never returns system errors; every failure is a user-correctable
// FieldError surfaced through Result.
package validation
