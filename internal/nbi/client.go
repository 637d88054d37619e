package nbi

import (
	"context"
	"errors"
	"fmt"

	"google.golang.org/grpc"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/lunar-propagation/core"
	"github.com/signalsfoundry/lunar-propagation/model"
)

// CallError is returned by Client when the server rejected a request. Code
// is the ILM return code from the call trailer, or core.CodeUnknown.
type CallError struct {
	Code     int
	Warnings model.Warning
	Status   *status.Status
}

func (e *CallError) Error() string {
	return fmt.Sprintf("ilm code %d: %s", e.Code, e.Status.Message())
}

// Unwrap exposes the gRPC status error.
func (e *CallError) Unwrap() error { return e.Status.Err() }

// Client calls a remote propagation service.
type Client struct {
	cc grpc.ClientConnInterface
}

// NewClient wraps an established connection.
func NewClient(cc grpc.ClientConnInterface) *Client {
	return &Client{cc: cc}
}

// PointToPointDocument calls PointToPoint with a raw request document.
func (c *Client) PointToPointDocument(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (Response, error) {
	return c.invoke(ctx, PointToPointFullMethod, req, opts...)
}

// AreaDocument calls Area with a raw request document.
func (c *Client) AreaDocument(ctx context.Context, req *structpb.Struct, opts ...grpc.CallOption) (Response, error) {
	return c.invoke(ctx, AreaFullMethod, req, opts...)
}

// PointToPoint calls PointToPoint with explicit model input.
func (c *Client) PointToPoint(ctx context.Context, in model.PointToPointInput, opts ...grpc.CallOption) (Response, error) {
	req, err := EncodePointToPoint(in)
	if err != nil {
		return Response{}, err
	}
	return c.PointToPointDocument(ctx, req, opts...)
}

// Area calls Area with explicit model input.
func (c *Client) Area(ctx context.Context, in model.AreaInput, opts ...grpc.CallOption) (Response, error) {
	req, err := EncodeArea(in)
	if err != nil {
		return Response{}, err
	}
	return c.AreaDocument(ctx, req, opts...)
}

func (c *Client) invoke(ctx context.Context, method string, req *structpb.Struct, opts ...grpc.CallOption) (Response, error) {
	var trailer metadata.MD
	out := new(structpb.Struct)

	opts = append(opts, grpc.Trailer(&trailer))
	if err := c.cc.Invoke(ctx, method, req, out, opts...); err != nil {
		st, _ := status.FromError(err)
		code, ok := CodeFromTrailer(trailer)
		if !ok {
			code = core.CodeUnknown
		}
		return Response{Code: code}, &CallError{Code: code, Warnings: WarningsFromTrailer(trailer), Status: st}
	}
	return DecodeResponse(out)
}

// EncodePointToPoint renders explicit model input as a request document.
func EncodePointToPoint(in model.PointToPointInput) (*structpb.Struct, error) {
	pfl := make([]interface{}, len(in.Profile))
	for i, v := range in.Profile {
		pfl[i] = v
	}
	return structpb.NewStruct(map[string]interface{}{
		"tx_height_m":      in.TXHeight,
		"rx_height_m":      in.RXHeight,
		"pfl":              pfl,
		"frequency_mhz":    in.FrequencyMHz,
		"polarization":     int(in.Polarization),
		"ground":           groundDocument(in.Ground),
		"location_percent": in.LocationPercent,

		"effective_diffraction_angle": in.EffectiveDiffractionAngle,
	})
}

// EncodeArea renders explicit model input as a request document.
func EncodeArea(in model.AreaInput) (*structpb.Struct, error) {
	return structpb.NewStruct(map[string]interface{}{
		"tx_height_m":      in.TXHeight,
		"rx_height_m":      in.RXHeight,
		"tx_siting":        int(in.TXSiting),
		"rx_siting":        int(in.RXSiting),
		"distance_km":      in.DistanceKm,
		"delta_h_m":        in.DeltaH,
		"frequency_mhz":    in.FrequencyMHz,
		"polarization":     int(in.Polarization),
		"ground":           groundDocument(in.Ground),
		"location_percent": in.LocationPercent,

		"effective_diffraction_angle": in.EffectiveDiffractionAngle,
	})
}

func groundDocument(g model.Ground) map[string]interface{} {
	return map[string]interface{}{"epsilon": g.Epsilon, "sigma": g.Sigma}
}

// IsCallError reports whether err is a server-side rejection and returns it.
func IsCallError(err error) (*CallError, bool) {
	var ce *CallError
	ok := errors.As(err, &ce)
	return ce, ok
}
