// Package dedupe provides the shared singleflight group used to collapse
// concurrent outcome reports. Both participants' clients observe the same
// terminal record at roughly the same moment; the group ensures only one
// commit job runs per battle key while other callers wait for its result.
package dedupe

import "golang.org/x/sync/singleflight"

// OutcomeGroup deduplicates result-committer reports keyed by battle key.
var OutcomeGroup singleflight.Group
