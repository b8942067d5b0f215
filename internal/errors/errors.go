package errors

import (
	stderrors "errors"
	"fmt"
)

type ErrorType string

const (
	ErrorTypeUserInput ErrorType = "USER_INPUT"
	ErrorTypeDomain    ErrorType = "DOMAIN"
	ErrorTypeNotFound  ErrorType = "NOT_FOUND"
	ErrorTypeInternal  ErrorType = "INTERNAL"
)

// Code identifies one documented failure. Two errors with the same code
// match under errors.Is regardless of message.
type Code string

const (
	CodeNoCommand        Code = "NoCommand"
	CodeUnknownCommand   Code = "UnknownCommand"
	CodeIncorrectOperand Code = "IncorrectOperands"

	CodeAlreadyInitialized    Code = "AlreadyInitialized"
	CodeNotInitialized        Code = "NotInitialized"
	CodeFileNotFound          Code = "FileNotFound"
	CodeNothingToRemove       Code = "NothingToRemove"
	CodeEmptyMessage          Code = "EmptyMessage"
	CodeNothingStaged         Code = "NothingStaged"
	CodeBranchExists          Code = "BranchExists"
	CodeNoSuchBranch          Code = "NoSuchBranch"
	CodeCannotRemoveCurrent   Code = "CannotRemoveCurrent"
	CodeNoSuchCommit          Code = "NoSuchCommit"
	CodeFileNotInCommit       Code = "FileNotInCommit"
	CodeNoOpSameBranch        Code = "NoOpSameBranch"
	CodeUntrackedFileConflict Code = "UntrackedFileConflict"
	CodeUncommittedChanges    Code = "UncommittedChanges"
	CodeSelfMerge             Code = "SelfMerge"
	CodeAncestorBranch        Code = "AncestorBranch"
	CodeNoCommitWithMessage   Code = "NoCommitWithMessage"
	CodeAmbiguousID           Code = "AmbiguousID"

	CodeObjectNotFound Code = "ObjectNotFound"
)

type Error struct {
	Type    ErrorType `json:"type"`
	Code    Code      `json:"code"`
	Message string    `json:"message"`
	Err     error     `json:"-"`
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Is matches on Code so callers can compare against the exported sentinels
// even when the message or wrapped cause differ.
func (e *Error) Is(target error) bool {
	t, ok := target.(*Error)
	if !ok {
		return false
	}
	return t.Code == e.Code
}

func UserInput(code Code, message string) *Error {
	return &Error{
		Type:    ErrorTypeUserInput,
		Code:    code,
		Message: message,
	}
}

func Domain(code Code, message string) *Error {
	return &Error{
		Type:    ErrorTypeDomain,
		Code:    code,
		Message: message,
	}
}

// NotFound reports an object id the store cannot produce. It means the
// repository is corrupted, not that the user asked for something wrong.
func NotFound(message string, cause error) *Error {
	return &Error{
		Type:    ErrorTypeNotFound,
		Code:    CodeObjectNotFound,
		Message: message,
		Err:     cause,
	}
}

var (
	ErrNoCommand        = UserInput(CodeNoCommand, "Please enter a command.")
	ErrUnknownCommand   = UserInput(CodeUnknownCommand, "No command with that name exists.")
	ErrIncorrectOperand = UserInput(CodeIncorrectOperand, "Incorrect operands.")

	ErrAlreadyInitialized    = Domain(CodeAlreadyInitialized, "A Gitlet version-control system already exists in the current directory.")
	ErrNotInitialized        = Domain(CodeNotInitialized, "Not in an initialized Gitlet directory.")
	ErrFileNotFound          = Domain(CodeFileNotFound, "File does not exist.")
	ErrNothingToRemove       = Domain(CodeNothingToRemove, "No reason to remove the file.")
	ErrEmptyMessage          = Domain(CodeEmptyMessage, "Please enter a commit message.")
	ErrNothingStaged         = Domain(CodeNothingStaged, "No changes added to the commit.")
	ErrBranchExists          = Domain(CodeBranchExists, "A branch with that name already exists.")
	ErrNoSuchBranch          = Domain(CodeNoSuchBranch, "A branch with that name does not exist.")
	ErrCannotRemoveCurrent   = Domain(CodeCannotRemoveCurrent, "Cannot remove the current branch.")
	ErrNoSuchCommit          = Domain(CodeNoSuchCommit, "No commit with that id exists.")
	ErrFileNotInCommit       = Domain(CodeFileNotInCommit, "File does not exist in that commit.")
	ErrNoOpSameBranch        = Domain(CodeNoOpSameBranch, "No need to checkout the current branch.")
	ErrUntrackedFileConflict = Domain(CodeUntrackedFileConflict, "There is an untracked file in the way; delete it, or add and commit it first.")
	ErrUncommittedChanges    = Domain(CodeUncommittedChanges, "You have uncommitted changes.")
	ErrSelfMerge             = Domain(CodeSelfMerge, "Cannot merge a branch with itself.")
	ErrAncestorBranch        = Domain(CodeAncestorBranch, "Given branch is an ancestor of the current branch.")
	ErrNoCommitWithMessage   = Domain(CodeNoCommitWithMessage, "Found no commit with that message.")
	ErrAmbiguousID           = Domain(CodeAmbiguousID, "Ambiguous commit id.")

	ErrObjectNotFound = NotFound("object not found", nil)
)

// ErrNoSuchBranchCheckout carries the wording checkout uses for a missing
// branch; it still matches ErrNoSuchBranch.
var ErrNoSuchBranchCheckout = Domain(CodeNoSuchBranch, "No such branch exists.")

// As returns the typed error in err's chain, if any.
func As(err error) (*Error, bool) {
	var e *Error
	if stderrors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// IsUserFacing reports whether err is a handled user or domain failure whose
// message should be shown as is.
func IsUserFacing(err error) bool {
	e, ok := As(err)
	if !ok {
		return false
	}
	return e.Type == ErrorTypeUserInput || e.Type == ErrorTypeDomain
}
