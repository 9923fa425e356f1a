// Package correlate implements message search over the remote mail API's
// batch endpoint. Each lead's candidate addresses become one sub-request
// of a single multiplexed POST, so correlating a page of leads costs one
// round trip instead of one per lead.
package correlate
