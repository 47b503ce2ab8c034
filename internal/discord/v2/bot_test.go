package v2_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/bwmarrin/discordgo"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"
	"go.uber.org/zap/zaptest"

	"github.com/KirkDiggler/clash-profile-bot/internal/clients/imagegen"
	mockimagegen "github.com/KirkDiggler/clash-profile-bot/internal/clients/imagegen/mock"
	v2 "github.com/KirkDiggler/clash-profile-bot/internal/discord/v2"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/core"
	"github.com/KirkDiggler/clash-profile-bot/internal/discord/v2/selection"
	"github.com/KirkDiggler/clash-profile-bot/internal/metrics"
	"github.com/KirkDiggler/clash-profile-bot/internal/services/profile"
	mockprofile "github.com/KirkDiggler/clash-profile-bot/internal/services/profile/mock"
	"github.com/KirkDiggler/clash-profile-bot/internal/testutils"
	"github.com/KirkDiggler/clash-profile-bot/internal/uuid"
)

type botFixture struct {
	bot      *v2.Bot
	service  *mockprofile.MockService
	images   *mockimagegen.MockClient
	sessions *selection.Manager
	metrics  *metrics.Metrics
	next     *core.MockResponder
}

func newBotFixture(t *testing.T, rateLimit int) *botFixture {
	ctrl := gomock.NewController(t)
	logger := zaptest.NewLogger(t)

	f := &botFixture{
		service: mockprofile.NewMockService(ctrl),
		images:  mockimagegen.NewMockClient(ctrl),
		metrics: metrics.New(prometheus.NewRegistry()),
	}
	f.sessions = selection.NewManager(&selection.ManagerConfig{
		Images:  f.images,
		Timeout: time.Minute,
		Logger:  logger,
		Metrics: f.metrics,
	})
	t.Cleanup(f.sessions.Close)

	f.bot = v2.NewBot(&v2.BotConfig{
		Service:         f.service,
		Sessions:        f.sessions,
		Logger:          logger,
		Metrics:         f.metrics,
		RequestIDs:      uuid.StaticGenerator("req-1"),
		RateLimit:       rateLimit,
		RateLimitWindow: time.Minute,
		ResponderFactory: func(*discordgo.Session, *discordgo.InteractionCreate) core.InteractionResponder {
			return f.next
		},
	})

	return f
}

func (f *botFixture) execute(t *testing.T, i *discordgo.InteractionCreate) *core.MockResponder {
	t.Helper()
	f.next = core.NewMockResponder()
	f.next.MessageID = testutils.TestMessageID
	require.NoError(t, f.bot.Pipeline().Execute(context.Background(), nil, i))
	return f.next
}

func slashCommand(name, sub string, options ...*discordgo.ApplicationCommandInteractionDataOption) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   "interaction-1",
			Type: discordgo.InteractionApplicationCommand,
			User: &discordgo.User{ID: testutils.TestOwnerID},
			Data: discordgo.ApplicationCommandInteractionData{
				Name: name,
				Options: []*discordgo.ApplicationCommandInteractionDataOption{
					{Name: sub, Type: discordgo.ApplicationCommandOptionSubCommand, Options: options},
				},
			},
		},
	}
}

func viewSelect(userID, value string) *discordgo.InteractionCreate {
	return &discordgo.InteractionCreate{
		Interaction: &discordgo.Interaction{
			ID:   "interaction-2",
			Type: discordgo.InteractionMessageComponent,
			User: &discordgo.User{ID: userID},
			Data: discordgo.MessageComponentInteractionData{
				CustomID:      "profile:view",
				ComponentType: discordgo.SelectMenuComponent,
				Values:        []string{value},
			},
			Message: &discordgo.Message{ID: testutils.TestMessageID},
		},
	}
}

func TestBot_ShowThenSwitchView(t *testing.T) {
	f := newBotFixture(t, 10)
	player := testutils.CreateTestPlayer("2PP", "Chief")

	f.service.EXPECT().ResolveTag(gomock.Any(), testutils.TestOwnerID, "").Return("2PP", nil)
	f.service.EXPECT().Lookup(gomock.Any(), "2PP").Return(&profile.LookupOutput{Tag: "2PP", Player: player}, nil)
	f.service.EXPECT().IsVerified(gomock.Any(), "2PP", testutils.TestOwnerID).Return(true, nil)
	for _, kind := range []imagegen.Kind{imagegen.KindProfile, imagegen.KindXP, imagegen.KindTroops} {
		f.images.EXPECT().FetchImage(gomock.Any(), kind, "2PP").Return([]byte("png"), nil)
	}

	show := f.execute(t, slashCommand("profile", "show"))
	assert.Equal(t, []bool{false}, show.DeferCalls)
	assert.Len(t, show.EditsSnapshot(), 2)
	assert.Equal(t, 1, f.sessions.Len())

	sel := f.execute(t, viewSelect(testutils.TestOwnerID, "army"))
	assert.Equal(t, 1, sel.DeferUpdateCalls)
	assert.Len(t, sel.EditsSnapshot(), 2)

	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.Interactions.WithLabelValues("command", "profile/show")))
	assert.Equal(t, float64(1), testutil.ToFloat64(f.metrics.ActiveSessions))
}

func TestBot_RateLimited(t *testing.T) {
	f := newBotFixture(t, 1)

	f.service.EXPECT().RemoveDefault(gomock.Any(), testutils.TestOwnerID).Return(true, nil)

	first := f.execute(t, slashCommand("profile", "remove"))
	require.Len(t, first.Responses, 1)
	assert.Equal(t, "I have removed your default profile.", first.Responses[0].Content)

	second := f.execute(t, slashCommand("profile", "remove"))
	require.Len(t, second.Responses, 1)
	assert.Contains(t, second.Responses[0].Content, "too fast")
	assert.True(t, second.Responses[0].Ephemeral)
}

func TestBot_UnknownCommand(t *testing.T) {
	f := newBotFixture(t, 10)

	responder := f.execute(t, slashCommand("clan", "show"))

	require.Len(t, responder.Responses, 1)
	assert.Equal(t, "I don't know how to handle that command.", responder.Responses[0].Content)
}

func TestBot_PanicIsRecovered(t *testing.T) {
	f := newBotFixture(t, 10)

	f.service.EXPECT().
		RemoveDefault(gomock.Any(), testutils.TestOwnerID).
		DoAndReturn(func(context.Context, string) (bool, error) {
			panic("store exploded")
		})

	responder := f.execute(t, slashCommand("profile", "remove"))

	require.Len(t, responder.Responses, 1)
	assert.True(t, responder.Responses[0].Ephemeral)
}

type fakeRegistrar struct {
	appID    string
	guildID  string
	commands []*discordgo.ApplicationCommand
	err      error
}

func (f *fakeRegistrar) ApplicationCommandBulkOverwrite(appID string, guildID string, commands []*discordgo.ApplicationCommand, _ ...discordgo.RequestOption) ([]*discordgo.ApplicationCommand, error) {
	f.appID = appID
	f.guildID = guildID
	f.commands = commands
	return commands, f.err
}

func TestRegisterCommands(t *testing.T) {
	registrar := &fakeRegistrar{}

	err := v2.RegisterCommands(registrar, "app-1", testutils.TestGuildID, zaptest.NewLogger(t))
	require.NoError(t, err)

	assert.Equal(t, "app-1", registrar.appID)
	assert.Equal(t, testutils.TestGuildID, registrar.guildID)
	require.Len(t, registrar.commands, 1)
	assert.Equal(t, "profile", registrar.commands[0].Name)
}

func TestRegisterCommands_Error(t *testing.T) {
	registrar := &fakeRegistrar{err: errors.New("missing access")}

	err := v2.RegisterCommands(registrar, "app-1", "", nil)
	assert.ErrorContains(t, err, "missing access")
}
