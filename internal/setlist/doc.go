// Package setlist builds and owns the working set for a gig.
//
// # Smart Set Builder
//
// [Build] assembles an ordered set from an already filtered pool following a [Policy]:
//
//  1. Rank the pool by popularity, highest first, keeping pool order among ties.
//  2. Run each [Step] in order, taking up to Count not-yet-picked songs whose energy equals Energy.
//  3. Fill from the ranked pool until the set reaches Capacity or the pool runs out.
//  4. Truncate to Capacity.
//
// [DefaultPolicy] approximates a 90 minute show: four songs at energy 3, five at 4, four at 5, then one more at 4
// and one more at 5, for a capacity of fifteen.
//
// # Session
//
// [Session] is the single owner of the working set and the transposition offset. Its methods lock, so a session
// may be shared between the HTTP surface and the stage view.
package setlist
