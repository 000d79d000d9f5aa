package dom

import (
	"errors"
	"fmt"
)

// Sentinel causes for reconcile rejection. Match with errors.Is.
var (
	ErrMissingRoot       = errors.New("root id not present in description")
	ErrBadID             = errors.New("node id zero is reserved")
	ErrBadKind           = errors.New("unknown node kind")
	ErrDuplicateID       = errors.New("duplicate node id")
	ErrUnknownChild      = errors.New("child id not present in description")
	ErrChildClaimedTwice = errors.New("child claimed by more than one parent")
	ErrRootClaimed       = errors.New("root claimed as a child")
	ErrUnreachable       = errors.New("node unreachable from root")
	ErrLeafChildren      = errors.New("text and image nodes cannot have children")
)

// ReconcileError reports why a description was rejected. The tree is
// left exactly as it was before the failing Reconcile call.
type ReconcileError struct {
	cause error
	// ID is the node the check failed on.
	ID NodeID
	// Child is the offending child reference, when relevant.
	Child NodeID
}

func (e *ReconcileError) Error() string {
	if e.Child != NoNode {
		return fmt.Sprintf("reconcile: node %d: %v (child %d)", e.ID, e.cause, e.Child)
	}
	return fmt.Sprintf("reconcile: node %d: %v", e.ID, e.cause)
}

func (e *ReconcileError) Unwrap() error { return e.cause }

func reconcileErr(cause error, id NodeID) error {
	return &ReconcileError{cause: cause, ID: id}
}

func reconcileChildErr(cause error, id, child NodeID) error {
	return &ReconcileError{cause: cause, ID: id, Child: child}
}
