package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseEnums(t *testing.T) {
	ct, err := ParseContributionType("goods and services")
	require.NoError(t, err)
	assert.Equal(t, GoodsServices, ct)

	ct, err = ParseContributionType(" MONETARY ")
	require.NoError(t, err)
	assert.Equal(t, Monetary, ct)

	who, err := ParseContributorType("spouse of  candidate")
	require.NoError(t, err)
	assert.Equal(t, SpouseOfCandidate, who)

	rt, err := ParseRegistrantType("Third Party Advertiser")
	require.NoError(t, err)
	assert.Equal(t, ThirdParty, rt)

	o, err := ParseOffice("tcdsb trustee")
	require.NoError(t, err)
	assert.Equal(t, TCDSBTrustee, o)
}

func TestParseEnumsRejectUnknown(t *testing.T) {
	_, err := ParseOffice("School Board")
	var ee *EnumError
	require.ErrorAs(t, err, &ee)
	assert.Equal(t, "Office", ee.Field)
	assert.Equal(t, "School Board", ee.Value)

	_, err = ParseContributorType("")
	assert.Error(t, err)
}
