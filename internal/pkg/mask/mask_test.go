package mask

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEmail(t *testing.T) {
	cases := []struct{ input, want string }{
		{"ama.osei@ucc.edu.gh", "ama****@ucc.edu.gh"},
		{"kwame.mensah@ucc.edu.gh", "kwa****@ucc.edu.gh"},
		{"abcde@ucc.edu.gh", "abc****@ucc.edu.gh"},
		{"abcd@ucc.edu.gh", "a****@ucc.edu.gh"},
		{"ab@ucc.edu.gh", "a****@ucc.edu.gh"},
		{"a@ucc.edu.gh", "a****@ucc.edu.gh"},
	}
	for _, c := range cases {
		assert.Equal(t, c.want, Email(c.input), "input: %q", c.input)
	}
}

func TestEmail_NotAnAddress_ReturnedUnchanged(t *testing.T) {
	assert.Equal(t, "not-an-email", Email("not-an-email"))
	assert.Equal(t, "@ucc.edu.gh", Email("@ucc.edu.gh"))
}
