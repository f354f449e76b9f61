package od

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

const sampleEDS = `
[1000]
ParameterName=Device type
ObjectType=0x7
DataType=0x0007
AccessType=ro
DefaultValue=0x0
PDOMapping=0

[1018]
ParameterName=Identity object
ObjectType=0x9
SubNumber=2

[1018sub0]
ParameterName=Highest sub-index supported
ObjectType=0x7
DataType=0x0005
AccessType=ro
DefaultValue=1
PDOMapping=0

[1018sub1]
ParameterName=Vendor-ID
ObjectType=0x7
DataType=0x0007
AccessType=ro
DefaultValue=0x0
PDOMapping=0
`

func TestParseEDS(t *testing.T) {
	od, err := Parse([]byte(sampleEDS), 0x10)
	assert.Nil(t, err)
	assert.NotNil(t, od)

	entry := od.Index(0x1000)
	assert.NotNil(t, entry)

	identity := od.Index(0x1018)
	assert.NotNil(t, identity)
}

func BenchmarkParser(b *testing.B) {
	for n := 0; n < b.N; n++ {
		_, err := Parse([]byte(sampleEDS), 0x10)
		assert.Nil(b, err)
	}
}
