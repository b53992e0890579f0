// Package item defines the to-do item model and the validation of client
// input that creates or patches one.
//
// Parsing is pure: raw request bytes go in, a typed input or a set of field
// errors comes out. Nothing here touches storage or HTTP.
package item
