// Package intent models platform intents and the predicates used to match
// them: request templates (an [Intent] used as a [Matcher]) and receiver
// filters ([Filter]).
//
// MIME types are matched with the usual wildcard rules, so a template built
// with only a type, such as "image/*", matches any delivered intent sharing a
// compatible type.
package intent
