package core

import (
	"fmt"

	"github.com/LambdaTest/neuron/pkg/errs"
)

// Terminal reports whether no further transition may leave s except a reset.
func (s CheckSetStatus) Terminal() bool {
	switch s {
	case CheckSetProcessed, CheckSetErrored, CheckSetNotConfigured:
		return true
	case CheckSetWaiting, CheckSetQueued, CheckSetProcessing:
		return false
	}
	panic(fmt.Sprintf("unknown check set status %q", string(s)))
}

// ParsePatchStatus converts an inbound patch status, rejecting waiting and unknown values.
func ParsePatchStatus(status string) (CheckStatus, error) {
	switch s := CheckStatus(status); s {
	case CheckRunning, CheckSucceeded, CheckErrored:
		return s, nil
	case CheckWaiting:
		return "", errs.ErrUnknownStatus(status)
	}
	return "", errs.ErrUnknownStatus(status)
}

// State maps a condensed status onto the state reported to the status sink.
func (c CondensedStatus) State() StatusState {
	switch c {
	case CondensedGreen:
		return StateSuccess
	case CondensedYellow:
		return StatePending
	case CondensedRed:
		return StateFailure
	}
	panic(fmt.Sprintf("unknown condensed status %q", string(c)))
}

// Condense combines the check set and coverage state of a commit. Either may be nil.
func Condense(checkSet *CheckSet, coverage *CoverageInfo, threshold *float64) CondensedStatus {
	if checkSet != nil && checkSet.Status == CheckSetErrored {
		return CondensedRed
	}
	if coverage != nil && coverage.Status == CoverageProcessed && threshold != nil &&
		coverage.PercentCovered < *threshold {
		return CondensedRed
	}
	if checkSet != nil && (checkSet.Status == CheckSetQueued || checkSet.Status == CheckSetProcessing) {
		return CondensedYellow
	}
	if coverage != nil && coverage.Status == CoverageUpdating {
		return CondensedYellow
	}
	return CondensedGreen
}
