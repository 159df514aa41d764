package kosmo

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestCSVRoundTrip(t *testing.T) {
	curve := []Point{{Size: 100, MissRatio: 0.5}, {Size: 200, MissRatio: 0.25}}
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, curve))

	got, err := ReadAccurateCSV(&buf)
	require.NoError(t, err)
	require.Equal(t, curve, got)
}

func TestMAEZeroForIdenticalCurves(t *testing.T) {
	curve := []Point{{Size: 100, MissRatio: 0.5}, {Size: 200, MissRatio: 0.25}}
	mae, err := MAE(curve, curve)
	require.NoError(t, err)
	require.Zero(t, mae)
}

func TestMAEMismatchedLengthErrors(t *testing.T) {
	a := []Point{{Size: 1, MissRatio: 0}}
	b := []Point{{Size: 1, MissRatio: 0}, {Size: 2, MissRatio: 0}}
	_, err := MAE(a, b)
	require.Error(t, err)
}

func TestMAEKnownValue(t *testing.T) {
	a := []Point{{MissRatio: 0.5}, {MissRatio: 0.8}}
	b := []Point{{MissRatio: 0.3}, {MissRatio: 1.0}}
	mae, err := MAE(a, b)
	require.NoError(t, err)
	// |0.5-0.3| = 0.2, |0.8-1.0| = 0.2, mean = 0.2
	require.InDelta(t, 0.2, mae, 0.0001)
}
