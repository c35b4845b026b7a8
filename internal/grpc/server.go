package grpc

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/health"
	healthpb "google.golang.org/grpc/health/grpc_health_v1"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/Billy-Davies-2/hockey-draft-kit/internal/draft"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/ingest"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/league"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/logger"
	"github.com/Billy-Davies-2/hockey-draft-kit/internal/pubsub"
)

// Server implements the gRPC DraftService
type Server struct {
	svc    *league.Service
	pubsub *pubsub.PubSub
}

// NewServer creates a new gRPC server
func NewServer(svc *league.Service, ps *pubsub.PubSub) *Server {
	return &Server{
		svc:    svc,
		pubsub: ps,
	}
}

// Register adds DraftService and the standard health service to s. The
// returned health server reports SERVING until shutdown.
func Register(s *grpc.Server, srv *Server) *health.Server {
	RegisterDraftServiceServer(s, srv)

	hs := health.NewServer()
	healthpb.RegisterHealthServer(s, hs)
	hs.SetServingStatus("", healthpb.HealthCheckResponse_SERVING)
	hs.SetServingStatus(ServiceName, healthpb.HealthCheckResponse_SERVING)
	return hs
}

// LoggingInterceptor logs every unary call with its duration and status
func LoggingInterceptor(ctx context.Context, req interface{}, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (interface{}, error) {
	start := time.Now()
	resp, err := handler(ctx, req)
	code := status.Code(err)
	if code == codes.Internal || code == codes.Unknown {
		logger.Error("gRPC call failed", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start), "error", err)
	} else {
		logger.Debug("gRPC call", "method", info.FullMethod, "code", code.String(), "duration", time.Since(start))
	}
	return resp, err
}

// toStatus maps service errors to gRPC status codes
func toStatus(err error) error {
	if err == nil {
		return nil
	}

	var parseErrs ingest.ParseErrors
	code := codes.Internal
	switch {
	case errors.Is(err, league.ErrPlayerNotFound), errors.Is(err, league.ErrTeamNotFound):
		code = codes.NotFound
	case errors.Is(err, league.ErrAlreadyDrafted):
		code = codes.AlreadyExists
	case errors.Is(err, draft.ErrAlreadyStarted),
		errors.Is(err, draft.ErrDraftNotInProgress),
		errors.Is(err, draft.ErrDraftComplete),
		errors.Is(err, draft.ErrOutOfTurn):
		code = codes.FailedPrecondition
	case errors.Is(err, league.ErrInvalidSettings),
		errors.Is(err, league.ErrUserTeam),
		errors.Is(err, draft.ErrNoPlayer),
		errors.As(err, &parseErrs):
		code = codes.InvalidArgument
	}
	return status.Error(code, err.Error())
}

// toStruct converts any JSON-encodable value to a Struct. Lists and scalars
// are wrapped under key.
func toStruct(key string, v interface{}) (*structpb.Struct, error) {
	if key != "" {
		v = map[string]interface{}{key: v}
	}
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}

	out := &structpb.Struct{}
	if err := protojson.Unmarshal(data, out); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func stringField(req *structpb.Struct, name string) string {
	return req.GetFields()[name].GetStringValue()
}

// intField returns a whole-number field and whether it was set
func intField(req *structpb.Struct, name string) (int, bool, error) {
	v, ok := req.GetFields()[name]
	if !ok {
		return 0, false, nil
	}
	n, isNum := v.GetKind().(*structpb.Value_NumberValue)
	if !isNum || n.NumberValue != float64(int(n.NumberValue)) {
		return 0, true, status.Errorf(codes.InvalidArgument, "%s must be a whole number", name)
	}
	return int(n.NumberValue), true, nil
}

// GetState returns the current draft state
func (s *Server) GetState(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	logger.Debug("gRPC: Getting draft state")
	return toStruct("", s.svc.Snapshot())
}

// ListRankings returns ranked players. Request fields: available (bool) and
// limit (number).
func (s *Server) ListRankings(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	players := s.svc.Rankings()
	if req.GetFields()["available"].GetBoolValue() {
		players = s.svc.Available()
	}

	limit, ok, err := intField(req, "limit")
	if err != nil {
		return nil, err
	}
	if ok && limit >= 0 && limit < len(players) {
		players = players[:limit]
	}
	return toStruct("players", players)
}

// StartDraft opens pick 1
func (s *Server) StartDraft(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	logger.Info("gRPC: Starting draft")
	if err := s.svc.StartDraft(); err != nil {
		return nil, toStatus(err)
	}
	return toStruct("", s.svc.Snapshot())
}

// SelectPlayer drafts playerKey for the team on the clock, optionally
// guarded by pickNumber
func (s *Server) SelectPlayer(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	key := stringField(req, "playerKey")
	if key == "" {
		return nil, status.Error(codes.InvalidArgument, "playerKey is required")
	}
	pickNumber, guarded, err := intField(req, "pickNumber")
	if err != nil {
		return nil, err
	}

	logger.Info("gRPC: Drafting player", "player_key", key)
	if guarded {
		pick, err := s.svc.SelectPlayerAt(ctx, pickNumber, key)
		if err != nil {
			return nil, toStatus(err)
		}
		return toStruct("", pick)
	}

	pick, err := s.svc.SelectPlayer(ctx, key)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct("", pick)
}

// ResetDraft clears every pick and restarts
func (s *Server) ResetDraft(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	logger.Info("gRPC: Resetting draft")
	s.svc.ResetDraft()
	return &emptypb.Empty{}, nil
}

// StopDraft abandons the draft
func (s *Server) StopDraft(ctx context.Context, _ *emptypb.Empty) (*emptypb.Empty, error) {
	logger.Info("gRPC: Stopping draft")
	s.svc.StopDraft()
	return &emptypb.Empty{}, nil
}

// GetRoster returns a team's slotted roster; teamId defaults to the user's team
func (s *Server) GetRoster(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	teamID, ok, err := intField(req, "teamId")
	if err != nil {
		return nil, err
	}
	if !ok {
		teamID = s.svc.Settings().UserTeamID
	}

	roster, err := s.svc.Roster(teamID)
	if err != nil {
		return nil, toStatus(err)
	}
	return toStruct("", roster)
}

// GetStandings returns projected team totals
func (s *Server) GetStandings(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct("standings", s.svc.Standings())
}

// ExpectedPicks returns players expected to go before the user's next pick
func (s *Server) ExpectedPicks(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct("players", s.svc.ExpectedPicks())
}

// ReorderTeams sets the draft order from teamIds
func (s *Server) ReorderTeams(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	values := req.GetFields()["teamIds"].GetListValue().GetValues()
	ids := make([]int, 0, len(values))
	for _, v := range values {
		n, ok := v.GetKind().(*structpb.Value_NumberValue)
		if !ok {
			return nil, status.Error(codes.InvalidArgument, "teamIds must be numbers")
		}
		ids = append(ids, int(n.NumberValue))
	}

	if err := s.svc.ReorderTeams(ids); err != nil {
		return nil, toStatus(err)
	}
	return toStruct("teams", s.svc.Snapshot().Teams)
}

// WatchEvents streams league events until the client goes away
func (s *Server) WatchEvents(_ *emptypb.Empty, stream grpc.ServerStream) error {
	ch := s.pubsub.Subscribe()
	defer s.pubsub.Unsubscribe(ch)

	// headers tell the client the subscription is live
	if err := stream.SendHeader(nil); err != nil {
		return err
	}

	for {
		select {
		case <-stream.Context().Done():
			logger.Debug("gRPC: Event watcher disconnected")
			return nil
		case event, ok := <-ch:
			if !ok {
				return nil
			}
			msg, err := toStruct("", event)
			if err != nil {
				return err
			}
			if err := stream.SendMsg(msg); err != nil {
				return err
			}
		}
	}
}

var _ DraftServiceServer = (*Server)(nil)
