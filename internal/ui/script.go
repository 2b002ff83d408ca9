package ui

import (
	"fmt"

	"github.com/narwhaltorpedo/pwm/internal/pwmerrors"
)

// Script is a scripted Interface double for tests: it returns a
// pre-recorded sequence of answers instead of reading a real terminal, so
// the CRUD flows in the vault package can be exercised end to end without
// a TTY.
type Script struct {
	Lines     []string
	YesNo     []bool
	Ints      []int
	Passwords []string

	lineIdx, yesNoIdx, intIdx, pwdIdx int
	Log                               []string
}

func (s *Script) Printf(format string, args ...any) {
	s.Log = append(s.Log, fmt.Sprintf(format, args...))
}

func (s *Script) GetLine(maxLen int) (string, error) {
	if s.lineIdx >= len(s.Lines) {
		return "", pwmerrors.NewInternalError("ui.Script", "script exhausted for GetLine", nil)
	}
	v := s.Lines[s.lineIdx]
	s.lineIdx++
	return v, nil
}

func (s *Script) GetPassword(maxLen int) ([]byte, error) {
	if s.pwdIdx >= len(s.Passwords) {
		return nil, pwmerrors.NewInternalError("ui.Script", "script exhausted for GetPassword", nil)
	}
	v := s.Passwords[s.pwdIdx]
	s.pwdIdx++
	return []byte(v), nil
}

func (s *Script) GetYesNo(defaultYes bool) (bool, error) {
	if s.yesNoIdx >= len(s.YesNo) {
		return defaultYes, nil
	}
	v := s.YesNo[s.yesNoIdx]
	s.yesNoIdx++
	return v, nil
}

func (s *Script) GetUnsignedInt(minValue, maxValue int) (int, error) {
	if s.intIdx >= len(s.Ints) {
		return 0, pwmerrors.NewInternalError("ui.Script", "script exhausted for GetUnsignedInt", nil)
	}
	v := s.Ints[s.intIdx]
	s.intIdx++
	return v, nil
}
