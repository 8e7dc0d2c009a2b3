package utils

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatTimeSpent(t *testing.T) {
	cases := []struct {
		seconds int
		want    string
	}{
		{0, "0s"},
		{45, "45s"},
		{59, "59s"},
		{60, "1m 0s"},
		{123, "2m 3s"},
		{3599, "59m 59s"},
		{3600, "1h 0m"},
		{3900, "1h 5m"},
		{7322, "2h 2m"},
		{-10, "0s"},
	}

	for _, tc := range cases {
		assert.Equal(t, tc.want, FormatTimeSpent(tc.seconds), "seconds=%d", tc.seconds)
	}
}

func TestRound2(t *testing.T) {
	assert.Equal(t, 63.33, Round2(63.333333))
	assert.Equal(t, 63.34, Round2(63.336))
	assert.Equal(t, 0.0, Round2(0))
	assert.Equal(t, 100.0, Round2(99.999))
	assert.Equal(t, -2.5, Round2(-2.499999))
}
