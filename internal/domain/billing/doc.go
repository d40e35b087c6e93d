// Package billing provides the domain model of the point-of-sale bill ledger.
//
// A Bill is one completed sale with header aggregates (subtotal, GST, discount,
// total). Its BillItems move through a two-state lifecycle:
//
//	create -> sold -> returned
//
// returned is terminal. Items are never deleted, so profit history survives
// returns and replacements.
//
// After every return or replacement the header aggregates are recomputed from
// scratch over the surviving (sold) items by Recompute, so repeated mutations
// cannot accumulate drift. Each item carries the GST rate frozen at sale time;
// items without one fall back to the bill's own rate.
package billing
