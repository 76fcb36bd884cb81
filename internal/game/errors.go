package game

import "fmt"

const (
	OpRespond = "respond"
	OpJudge   = "judge"
)

// OracleError reports an oracle call that failed after all retries.
// It ends the current turn but not the game.
type OracleError struct {
	Op      string // OpRespond or OpJudge
	Speaker string // NPC name for OpRespond
	Err     error
}

func (e *OracleError) Error() string {
	if e.Op == OpRespond {
		return fmt.Sprintf("oracle failed to respond as %s: %v", e.Speaker, e.Err)
	}
	return fmt.Sprintf("oracle failed to %s: %v", e.Op, e.Err)
}

func (e *OracleError) Unwrap() error {
	return e.Err
}
