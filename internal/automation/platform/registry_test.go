package platform_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/JoeShih716/go-platform-automation/internal/automation/platform"
	"github.com/JoeShih716/go-platform-automation/internal/core/domain"
	"github.com/JoeShih716/go-platform-automation/internal/core/ports"
	mock_ports "github.com/JoeShih716/go-platform-automation/test/mocks/core/ports"
)

func TestRegistry(t *testing.T) {
	ctrl := gomock.NewController(t)

	gv := mock_ports.NewMockPlatformAdapter(ctrl)
	gv.EXPECT().Platform().Return(domain.PlatformGameVault).AnyTimes()
	mw := mock_ports.NewMockPlatformAdapter(ctrl)
	mw.EXPECT().Platform().Return(domain.PlatformMilkyway).AnyTimes()

	t.Run("Resolve", func(t *testing.T) {
		reg, err := platform.NewRegistry(mw, gv)
		require.NoError(t, err)

		a, err := reg.Adapter(domain.PlatformGameVault)
		require.NoError(t, err)
		assert.Equal(t, domain.PlatformGameVault, a.Platform())

		_, err = reg.Adapter(domain.PlatformOrionStars)
		assert.ErrorIs(t, err, ports.ErrNoAdapter)

		assert.Equal(t, []domain.Platform{domain.PlatformGameVault, domain.PlatformMilkyway}, reg.Platforms())
	})

	t.Run("Duplicate", func(t *testing.T) {
		_, err := platform.NewRegistry(gv, gv)
		assert.Error(t, err)
	})
}

func TestBuild(t *testing.T) {
	t.Run("All profiles", func(t *testing.T) {
		reg, err := platform.Build(map[domain.Platform]string{
			domain.PlatformGameVault:  "https://agent.gamevault999.com",
			domain.PlatformMilkyway:   "https://milkywayapp.xyz:8781",
			domain.PlatformOrionStars: "https://orionstars.vip:8781",
		}, nil, nil, platform.DefaultOptions(), nil)
		require.NoError(t, err)
		assert.Len(t, reg.Platforms(), 3)
	})

	t.Run("Unknown platform", func(t *testing.T) {
		_, err := platform.Build(map[domain.Platform]string{"firekirin": "https://example.test"}, nil, nil, platform.DefaultOptions(), nil)
		assert.ErrorIs(t, err, domain.ErrUnknownPlatform)
	})

	t.Run("Empty base url", func(t *testing.T) {
		_, err := platform.Build(map[domain.Platform]string{domain.PlatformMilkyway: ""}, nil, nil, platform.DefaultOptions(), nil)
		assert.Error(t, err)
	})
}
