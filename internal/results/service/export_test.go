package service

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"election-ingest/internal/results/model"
)

func TestWriteCSV(t *testing.T) {
	votes := int64(1204)
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, []model.OfficeRecord{
		{Office: "Mayor", Candidate: "SMITH, JANE", Ward: "Ward 05", Subdivision: 1, VoteCount: &votes},
		{Office: "Mayor", Candidate: "DOE, JOHN", Ward: "Ward 05", Subdivision: 2},
	}))
	assert.Equal(t, "Office,Candidate,Ward,Subdivision,Vote Count\n"+
		"Mayor,\"SMITH, JANE\",Ward 05,1,1204\n"+
		"Mayor,\"DOE, JOHN\",Ward 05,2,\n", buf.String())
}
