package report_test

import (
	"bytes"
	"image/png"
	"testing"

	"github.com/Recrutamentebr/recrutamente-sub000/internal/report"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCountPages(t *testing.T) {
	for _, n := range []int{1, 2, 7} {
		got, err := report.CountPages(minimalPDF(n))
		require.NoError(t, err)
		assert.Equal(t, n, got)
	}
}

func TestCountPagesRejectsGarbage(t *testing.T) {
	_, err := report.CountPages([]byte("not a pdf at all"))
	assert.Error(t, err)
}

func TestVerifyPages(t *testing.T) {
	require.NoError(t, report.VerifyPages(minimalPDF(3), 3))
	err := report.VerifyPages(minimalPDF(2), 3)
	assert.ErrorIs(t, err, report.ErrPageCount)
}

func TestSliceBands(t *testing.T) {
	bands, err := report.SliceBands(solidPNG(10, 250), 100)
	require.NoError(t, err)
	require.Len(t, bands, 3)

	for _, b := range bands {
		img, err := png.Decode(bytes.NewReader(b))
		require.NoError(t, err)
		assert.Equal(t, 10, img.Bounds().Dx())
		assert.Equal(t, 100, img.Bounds().Dy())
	}

	// second band starts at source row 100
	img, err := png.Decode(bytes.NewReader(bands[1]))
	require.NoError(t, err)
	r, _, _, _ := img.At(0, 0).RGBA()
	assert.Equal(t, uint32(100), r>>8)

	// padding below the last source row is white
	last, err := png.Decode(bytes.NewReader(bands[2]))
	require.NoError(t, err)
	r, g, b, _ := last.At(0, 99).RGBA()
	assert.Equal(t, []uint32{0xffff, 0xffff, 0xffff}, []uint32{r, g, b})
}

func TestSliceBandsInvalid(t *testing.T) {
	_, err := report.SliceBands(solidPNG(4, 4), 0)
	assert.Error(t, err)
	_, err = report.SliceBands([]byte("png?"), 10)
	assert.Error(t, err)
}
