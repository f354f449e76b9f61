package od

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExportDefaultEds(t *testing.T) {
	odict, err := Parse([]byte(sampleEDS), 0x10)
	assert.Nil(t, err)

	tempdir := t.TempDir()
	err = ExportEDS(odict, true, tempdir+"/exported.eds")
	assert.Nil(t, err)

	odictNew, err := Parse(tempdir+"/exported.eds", 0x10)
	assert.Nil(t, err)

	// Check equality between entries
	for index, entry := range odict.entriesByIndexValue {
		other, ok := odictNew.entriesByIndexValue[index]
		assert.True(t, ok)
		assert.Equal(t, entry.Name, other.Name)
		switch o := entry.object.(type) {
		case *Variable:
			otherVariable := other.object.(*Variable)
			assert.Equal(t, o.value, otherVariable.value)
		}
	}
}
