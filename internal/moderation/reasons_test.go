package moderation

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestReasonForCode(t *testing.T) {
	req := require.New(t)

	req.Equal("Hate Speech", ReasonForCode(CategoryHateSpeech))
	req.Equal("Violent Crimes", ReasonForCode(CategoryViolentCrimes))
	req.Equal("Specialized Advice", ReasonForCode(CategorySpecializedAdvice))
	req.Equal("Code Interpreter Abuse", ReasonForCode(CategoryCodeInterpreterAbuse))
}

func TestReasonForUnknownCode(t *testing.T) {
	req := require.New(t)

	// Unknown codes still remove the message; only the reason degrades.
	req.Equal(ReasonUnknown, ReasonForCode("S99"))
	req.Equal(ReasonUnknown, ReasonForCode(""))
	req.Equal(ReasonUnknown, ReasonForCode("s10"))
}
