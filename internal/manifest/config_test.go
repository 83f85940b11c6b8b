package manifest

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := DefaultConfig()
	require.NoError(t, cfg.Validate())
	assert.GreaterOrEqual(t, ClusterSeparation(cfg.Trial.Low, cfg.Trial.High), MinClusterSeparation)
}

func TestValidateRejectsTinyFloor(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trial.Floor = 0.001
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "trial floor")

	cfg.Trial.Floor = MinFloor
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsOverlappingClusters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trial.Low = Cluster{Alpha: 10, Beta: 11}
	cfg.Trial.High = Cluster{Alpha: 11, Beta: 10}
	err := cfg.Validate()
	assert.ErrorIs(t, err, ErrInvalidConfig)
	assert.ErrorContains(t, err, "overlap")

	// well apart in mean but too wide to leave a valley
	cfg.Trial.Low = Cluster{Alpha: 2, Beta: 5}
	cfg.Trial.High = Cluster{Alpha: 5, Beta: 2}
	assert.ErrorContains(t, cfg.Validate(), "overlap")
}

func TestValidateRejectsEdgePeakedClusters(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trial.Low = Cluster{Alpha: 1, Beta: 20}
	assert.ErrorContains(t, cfg.Validate(), "low cluster alpha and beta must be > 1")
}

func TestValidateOrdersClusterErrors(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trial.Low = Cluster{Alpha: 0, Beta: 1}
	cfg.Trial.High = Cluster{Alpha: -1, Beta: 0}
	for i := 0; i < 20; i++ {
		msg := cfg.Validate().Error()
		low, high := strings.Index(msg, "trial low"), strings.Index(msg, "trial high")
		require.True(t, low >= 0 && high >= 0, msg)
		require.Less(t, low, high, msg)
	}
}

func TestMinFloorEngineStaysBimodal(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Trial.Floor = MinFloor
	e, err := NewEngine(cfg)
	require.NoError(t, err)
	for seed := uint64(1); seed <= 20; seed++ {
		res, err := e.Run(MinIntensity, NewSeededRNG(seed))
		require.NoError(t, err)
		assertBimodal(t, res.TrialHistogram)
	}
}
