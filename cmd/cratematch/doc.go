// Command cratematch matches a DJ library against an online catalog and
// reports, for every track, the best catalog record with a full scoring
// audit trail.
package main
