// Package session owns the state of one backup session: the credential the
// operator supplied, the collections discovered with it, the operator's
// selection and the current phase.
//
// A Controller is the only thing that mutates that state. Remote calls run in
// the background and report through a Pending handle. Every call is tagged
// with the session epoch it was issued under; replacing or removing the
// credential bumps the epoch, so results that arrive late are dropped instead
// of overwriting the newer session.
package session
