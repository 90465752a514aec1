// Package phone validates phone numbers in E.164 canonical form.
//
// The validator is a pure predicate: it performs no normalization, so input
// must already be canonical ("+" followed by country code and subscriber
// number). Callers that accept user input should reject anything IsValid
// refuses instead of trying to repair it.
package phone
