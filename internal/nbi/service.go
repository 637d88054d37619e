package nbi

import (
	"context"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
	"google.golang.org/grpc"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/lunar-propagation/core"
	"github.com/signalsfoundry/lunar-propagation/internal/logging"
	"github.com/signalsfoundry/lunar-propagation/internal/observability"
	"github.com/signalsfoundry/lunar-propagation/kb"
)

// Fully-qualified method names of the propagation service.
const (
	ServiceName            = "ilm.v1.PropagationService"
	PointToPointFullMethod = "/" + ServiceName + "/PointToPoint"
	AreaFullMethod         = "/" + ServiceName + "/Area"
)

const (
	modeKindPointToPoint = "p2p"
	modeKindArea         = "area"
)

// PropagationServiceServer is the server API of the propagation service.
type PropagationServiceServer interface {
	PointToPoint(context.Context, *structpb.Struct) (*structpb.Struct, error)
	Area(context.Context, *structpb.Struct) (*structpb.Struct, error)
}

// PropagationService computes ILM losses for request documents, resolving
// ground and site presets against a catalog.
type PropagationService struct {
	catalog *kb.Catalog
	log     logging.Logger
	metrics *observability.ComputationCollector
}

// NewPropagationService wires a service to a catalog, a logger and an
// optional metrics collector. A nil catalog disables presets.
func NewPropagationService(cat *kb.Catalog, log logging.Logger, metrics *observability.ComputationCollector) *PropagationService {
	if log == nil {
		log = logging.Noop()
	}
	return &PropagationService{catalog: cat, log: log, metrics: metrics}
}

// PointToPoint handles a profile-driven request.
func (s *PropagationService) PointToPoint(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := DecodePointToPoint(req, s.catalog)
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := StartComputeSpan(ctx, modeKindPointToPoint,
		attribute.Int("ilm.profile_points", len(in.Profile)),
		attribute.Bool("ilm.effective_diffraction_angle", in.EffectiveDiffractionAngle),
	)
	defer span.End()

	start := time.Now()
	r, err := core.PointToPointEx(in)
	return s.finish(ctx, span, modeKindPointToPoint, r, err, time.Since(start))
}

// Area handles a statistics-driven request.
func (s *PropagationService) Area(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	in, err := DecodeArea(req, s.catalog)
	if err != nil {
		return nil, ToStatusError(err)
	}

	ctx, span := StartComputeSpan(ctx, modeKindArea,
		attribute.Float64("ilm.distance_km", in.DistanceKm),
		attribute.Float64("ilm.delta_h_m", in.DeltaH),
		attribute.Bool("ilm.effective_diffraction_angle", in.EffectiveDiffractionAngle),
	)
	defer span.End()

	start := time.Now()
	r, err := core.AreaEx(in)
	return s.finish(ctx, span, modeKindArea, r, err, time.Since(start))
}

func (s *PropagationService) finish(ctx context.Context, span trace.Span, kind string, r core.Result, err error, elapsed time.Duration) (*structpb.Struct, error) {
	code := r.Code(err)
	s.metrics.RecordComputation(kind, r.Diagnostics.Mode, r.Warnings, r.LossDB, err, elapsed)

	recordComputeOutcome(span, r, err)

	log := logging.LoggerFromContext(ctx)
	if log == nil {
		log = s.log
	}

	if err != nil {
		log.Warn(ctx, "propagation computation rejected",
			logging.String("mode_kind", kind),
			logging.Int("code", code),
			logging.Warnings(r.Warnings),
			logging.Err(err),
		)
		setCodeTrailer(ctx, code, r.Warnings)
		return nil, ToStatusError(err)
	}

	log.Info(ctx, "propagation computed",
		logging.String("mode_kind", kind),
		logging.String("propagation_mode", r.Diagnostics.Mode.String()),
		logging.Float("loss_db", r.LossDB),
		logging.Int("code", code),
		logging.Warnings(r.Warnings),
	)
	setCodeTrailer(ctx, code, r.Warnings)
	return EncodeResult(r, nil)
}

// RegisterPropagationServiceServer registers srv on s.
func RegisterPropagationServiceServer(s grpc.ServiceRegistrar, srv PropagationServiceServer) {
	s.RegisterService(&PropagationServiceDesc, srv)
}

// PropagationServiceDesc describes the propagation service to gRPC. Both
// methods carry google.protobuf.Struct documents.
var PropagationServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*PropagationServiceServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "PointToPoint", Handler: pointToPointHandler},
		{MethodName: "Area", Handler: areaHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "ilm/v1/propagation.proto",
}

func pointToPointHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PropagationServiceServer).PointToPoint(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: PointToPointFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PropagationServiceServer).PointToPoint(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func areaHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(PropagationServiceServer).Area(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: AreaFullMethod}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(PropagationServiceServer).Area(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}
