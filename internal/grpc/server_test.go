package grpc

import (
	"context"
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/dal"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/league"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

type testEnv struct {
	client *Client
	conn   *grpc.ClientConn
	svc    *league.Service
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	store, err := dal.NewMemoryDAL()
	require.NoError(t, err)
	ps := pubsub.New()
	svc, err := league.NewService(store, league.WithPublisher(ps))
	require.NoError(t, err)

	lis := bufconn.Listen(1 << 20)
	s := grpc.NewServer(grpc.ChainUnaryInterceptor(LoggingInterceptor))
	Register(s, NewServer(svc, ps))
	go s.Serve(lis)
	t.Cleanup(s.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })

	return testEnv{client: NewClient(conn), conn: conn, svc: svc}
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestHealth(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := healthpb.NewHealthClient(env.conn).Check(ctx, &healthpb.HealthCheckRequest{Service: ServiceName})
	require.NoError(t, err)
	assert.Equal(t, healthpb.HealthCheckResponse_SERVING, resp.GetStatus())
}

func TestListRankings(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.client.ListRankings(ctx, mustStruct(t, map[string]interface{}{"limit": 5}))
	require.NoError(t, err)
	players := resp.GetFields()["players"].GetListValue().GetValues()
	require.Len(t, players, 5)
	assert.Equal(t, float64(1), players[0].GetStructValue().GetFields()["rank"].GetNumberValue())

	resp, err = env.client.ListRankings(ctx, &structpb.Struct{})
	require.NoError(t, err)
	assert.Len(t, resp.GetFields()["players"].GetListValue().GetValues(), 50)

	_, err = env.client.ListRankings(ctx, mustStruct(t, map[string]interface{}{"limit": "ten"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}

func TestDraftOverGRPC(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()
	top := env.svc.Rankings()[0]

	_, err := env.client.SelectPlayer(ctx, mustStruct(t, map[string]interface{}{"playerKey": top.Key}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	state, err := env.client.StartDraft(ctx)
	require.NoError(t, err)
	draftState := state.GetFields()["draft"].GetStructValue().GetFields()
	assert.Equal(t, "in_progress", draftState["status"].GetStringValue())

	_, err = env.client.StartDraft(ctx)
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	pick, err := env.client.SelectPlayer(ctx, mustStruct(t, map[string]interface{}{"playerKey": top.Key, "pickNumber": 1}))
	require.NoError(t, err)
	assert.Equal(t, float64(1), pick.GetFields()["pickNumber"].GetNumberValue())
	selected := pick.GetFields()["playerSelected"].GetStructValue().GetFields()
	assert.Equal(t, top.Key, selected["key"].GetStringValue())

	_, err = env.client.SelectPlayer(ctx, mustStruct(t, map[string]interface{}{"playerKey": top.Key}))
	assert.Equal(t, codes.AlreadyExists, status.Code(err))
	_, err = env.client.SelectPlayer(ctx, mustStruct(t, map[string]interface{}{"playerKey": "nobody"}))
	assert.Equal(t, codes.NotFound, status.Code(err))
	_, err = env.client.SelectPlayer(ctx, &structpb.Struct{})
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = env.client.SelectPlayer(ctx, mustStruct(t, map[string]interface{}{"playerKey": env.svc.Rankings()[1].Key, "pickNumber": 9}))
	assert.Equal(t, codes.FailedPrecondition, status.Code(err))

	roster, err := env.client.GetRoster(ctx, &structpb.Struct{})
	require.NoError(t, err)
	total := 0
	for _, v := range roster.GetFields() {
		total += len(v.GetListValue().GetValues())
	}
	assert.Equal(t, 1, total)

	_, err = env.client.GetRoster(ctx, mustStruct(t, map[string]interface{}{"teamId": 99}))
	assert.Equal(t, codes.NotFound, status.Code(err))

	standings, err := env.client.GetStandings(ctx)
	require.NoError(t, err)
	assert.Len(t, standings.GetFields()["standings"].GetListValue().GetValues(), 10)

	expected, err := env.client.ExpectedPicks(ctx)
	require.NoError(t, err)
	assert.Len(t, expected.GetFields()["players"].GetListValue().GetValues(), 21)

	require.NoError(t, env.client.ResetDraft(ctx))
	state, err = env.client.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, float64(1), state.GetFields()["draft"].GetStructValue().GetFields()["currentPickNumber"].GetNumberValue())

	require.NoError(t, env.client.StopDraft(ctx))
	state, err = env.client.GetState(ctx)
	require.NoError(t, err)
	assert.Equal(t, "not_started", state.GetFields()["draft"].GetStructValue().GetFields()["status"].GetStringValue())
}

func TestReorderTeams(t *testing.T) {
	env := newTestEnv(t)
	ctx := context.Background()

	resp, err := env.client.ReorderTeams(ctx, mustStruct(t, map[string]interface{}{"teamIds": []interface{}{4, 2}}))
	require.NoError(t, err)
	teams := resp.GetFields()["teams"].GetListValue().GetValues()
	require.Len(t, teams, 10)
	assert.Equal(t, float64(4), teams[0].GetStructValue().GetFields()["id"].GetNumberValue())
	assert.Equal(t, float64(2), teams[1].GetStructValue().GetFields()["id"].GetNumberValue())

	_, err = env.client.ReorderTeams(ctx, mustStruct(t, map[string]interface{}{"teamIds": []interface{}{"x"}}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
	_, err = env.client.ReorderTeams(ctx, mustStruct(t, map[string]interface{}{"teamIds": []interface{}{42}}))
	assert.Equal(t, codes.NotFound, status.Code(err))
}

func TestWatchEvents(t *testing.T) {
	env := newTestEnv(t)
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	stream, err := env.client.WatchEvents(ctx)
	require.NoError(t, err)
	_, err = stream.Header()
	require.NoError(t, err)

	require.NoError(t, env.svc.StartDraft())

	event, err := stream.Recv()
	require.NoError(t, err)
	assert.Equal(t, pubsub.EventDraftStart, event.GetFields()["type"].GetStringValue())
	assert.NotEmpty(t, event.GetFields()["id"].GetStringValue())
}
