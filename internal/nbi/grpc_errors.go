package nbi

import (
	"context"
	"errors"
	"strconv"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/metadata"
	"google.golang.org/grpc/status"

	"github.com/signalsfoundry/lunar-propagation/core"
	"github.com/signalsfoundry/lunar-propagation/kb"
	"github.com/signalsfoundry/lunar-propagation/model"
)

// Trailer keys carrying the published ILM return code and warning bitmask
// on every propagation RPC, including failed ones.
const (
	CodeTrailerKey     = "x-ilm-code"
	WarningsTrailerKey = "x-ilm-warnings"
)

// ToStatusError maps propagation errors onto gRPC status codes.
func ToStatusError(err error) error {
	if err == nil {
		return nil
	}
	if _, ok := status.FromError(err); ok {
		return err
	}

	switch {
	case errors.Is(err, kb.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())

	case errors.Is(err, ErrInvalidRequest),
		core.Code(err) != core.CodeUnknown:
		return status.Error(codes.InvalidArgument, err.Error())

	default:
		return status.Error(codes.Internal, err.Error())
	}
}

func setCodeTrailer(ctx context.Context, code int, w model.Warning) {
	// Fails only outside a server call, e.g. when a handler is invoked
	// directly in tests.
	_ = grpc.SetTrailer(ctx, metadata.Pairs(
		CodeTrailerKey, strconv.Itoa(code),
		WarningsTrailerKey, strconv.FormatUint(uint64(w), 10),
	))
}

// CodeFromTrailer reads the ILM return code from call trailers. ok is false
// when the server did not send one.
func CodeFromTrailer(md metadata.MD) (code int, ok bool) {
	v := firstHeader(md, CodeTrailerKey)
	if v == "" {
		return 0, false
	}
	code, err := strconv.Atoi(v)
	if err != nil {
		return 0, false
	}
	return code, true
}

// WarningsFromTrailer reads the warning bitmask from call trailers.
func WarningsFromTrailer(md metadata.MD) model.Warning {
	v, err := strconv.ParseUint(firstHeader(md, WarningsTrailerKey), 10, 32)
	if err != nil {
		return model.WarnNone
	}
	return model.Warning(v)
}
