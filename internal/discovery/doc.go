// Package discovery finds the files eligible for inclusion in a prompt.
//
// Discovery runs in two phases. A concurrent walk traverses every supplied
// root with a bounded worker pool, honoring the VCS ignore layer
// (.gitignore chains, .git/info/exclude, the user-global git ignore file)
// and testing each file's match-relative fragment against the command-line
// exclude globs. A sequential resolution pass then applies the
// .promptignore layer: per-directory override files cascading from each
// root down to a file's parent directory, plus one global file in the
// prompt home directory, with deepest-match-wins semantics so a
// subdirectory's whitelist rule can re-include what an ancestor ignored.
//
// The two layers differ in effect: VCS-ignored files are absent from the
// result entirely (unless requested), while promptignore-matched files stay
// visible, flagged excluded, so they can still be reported in summaries.
//
// Results are deduplicated, unique per path, and sorted, so repeated runs
// over an unchanged tree are identical.
package discovery
