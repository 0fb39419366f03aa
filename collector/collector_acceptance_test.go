//go:build acceptance

package collector_test

import (
	"context"
	"net/http"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/juan-malbeclabs/solana/collector"
	"github.com/juan-malbeclabs/solana/collector/store/pgxstore"
	"github.com/juan-malbeclabs/solana/collector/testcfg"
	"github.com/juan-malbeclabs/solana/collector/xlsx"
	"github.com/juan-malbeclabs/solana/migrator/migratortest"
	"github.com/juan-malbeclabs/solana/pkg/ipinfo"
	"github.com/juan-malbeclabs/solana/pkg/record"
	"github.com/juan-malbeclabs/solana/pkg/solana"
)

// TestCollectorAcceptanceBehavior runs the pipeline against the installed Solana CLI,
// the real geolocation API and PostgreSQL
func TestCollectorAcceptanceBehavior(t *testing.T) {
	t.Run("it exports every staked validator to the spreadsheet and the snapshot store", func(t *testing.T) {
		// Arrange
		cfg := testcfg.New()

		ctx, cancel := context.WithTimeout(t.Context(), cfg.RunTimeout)
		defer cancel()

		path := filepath.Join(t.TempDir(), xlsx.DefaultPath)
		store, _ := pgxstore.New(migratortest.CreateSnapshotTestDatabase(t))

		topology := solana.NewClient(cfg.SolanaCLIPath, solana.WithCluster(cfg.SolanaCluster))
		geo := ipinfo.NewClient(&http.Client{Timeout: cfg.HttpClientTimeout}, cfg.IPInfoAPIURL, cfg.IPInfoToken)

		svc := collector.NewService(topology, geo, []collector.Exporter{xlsx.New(path), store})

		// Act
		report, err := svc.Run(ctx)

		// Assert
		require.NoError(t, err)
		assert.Positive(t, report.Staked)
		assert.Equal(t, report.Staked, report.Exported)
		assert.FileExists(t, path)

		latest, err := store.LatestSnapshot(ctx)
		require.NoError(t, err)
		require.Equal(t, report.Exported, latest.Table.Len())

		for _, column := range []string{collector.IdentityField, collector.IPField, collector.StakeField, "city", "country"} {
			assert.GreaterOrEqual(t, latest.Table.Column(column), 0, "expected column %q", column)
		}

		stakeCol := latest.Table.Column(collector.StakeField)
		for i, row := range latest.Table.Rows {
			stake, ok := record.Float(row[stakeCol])
			require.True(t, ok, "row %d stake should be numeric", i)
			assert.Positive(t, stake, "row %d", i)
		}
	})
}
