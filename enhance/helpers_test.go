package enhance_test

import (
	"net/url"
	"testing"

	"github.com/fwojciec/blogboost/enhance"
	"github.com/stretchr/testify/require"
)

func hostOf(t *testing.T, link string) string {
	t.Helper()
	u, err := url.Parse(link)
	require.NoError(t, err)
	return enhance.NormalizeHost(u.Host)
}
