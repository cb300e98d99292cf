// Package build writes a gallery to the output tree.
//
// A Builder runs three stages in a fixed order:
//
//  1. render_index  - gallery.html and collections.html
//  2. collections   - per collection page, stale thumbnails and copied originals,
//     all run on one bounded worker pool
//  3. static_assets - stylesheets
//
// Every task writes a disjoint set of output paths. The error policy decides
// whether the first failure cancels the remaining work (fail_fast) or every task
// is attempted and failures are returned joined (best_effort).
package build
