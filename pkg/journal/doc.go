// Package journal persists the progress of a relink run so an interrupted
// run can be finished later.
//
// A Journal is written before the first filesystem mutation and rewritten
// after every copy and every replacement, through an atomic temp-file
// rename, as YAML under the journal directory:
//
//	$XDG_STATE_HOME/relink/journals/<id>.yaml
//
// The journal is removed once every entry is complete. Anything left in
// the directory belongs to a run that stopped part way.
package journal
