package nbi

import (
	"errors"
	"fmt"
	"reflect"

	"github.com/mitchellh/mapstructure"
	"google.golang.org/protobuf/types/known/structpb"

	"github.com/signalsfoundry/lunar-propagation/core"
	"github.com/signalsfoundry/lunar-propagation/kb"
	"github.com/signalsfoundry/lunar-propagation/model"
)

// ErrInvalidRequest is returned for request documents that cannot be turned
// into model inputs.
var ErrInvalidRequest = errors.New("invalid request")

// PointToPointRequest is the decoded form of a PointToPoint request
// document. GroundPreset names a catalog entry and replaces Ground.
type PointToPointRequest struct {
	model.PointToPointInput `mapstructure:",squash"`
	GroundPreset            string `mapstructure:"ground_preset"`
}

// AreaRequest is the decoded form of an Area request document. TXSite and
// RXSite name catalog sites and supply the height and siting of that
// terminal.
type AreaRequest struct {
	model.AreaInput `mapstructure:",squash"`
	GroundPreset    string `mapstructure:"ground_preset"`
	TXSite          string `mapstructure:"tx_site"`
	RXSite          string `mapstructure:"rx_site"`
}

var (
	polarizationType = reflect.TypeOf(model.PolarizationHorizontal)
	sitingType       = reflect.TypeOf(model.SitingMobile)
)

// enumHook lets documents name enum values ("vertical", "fixed") as well as
// give their integer codes.
func enumHook(from, to reflect.Type, data interface{}) (interface{}, error) {
	if from.Kind() != reflect.String {
		return data, nil
	}
	switch to {
	case polarizationType:
		return model.ParsePolarization(data.(string))
	case sitingType:
		return model.ParseSitingCriteria(data.(string))
	}
	return data, nil
}

func decodeDocument(m map[string]interface{}, out interface{}) error {
	dec, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
		DecodeHook:  enumHook,
		ErrorUnused: true,
		Result:      out,
	})
	if err != nil {
		return err
	}
	if err := dec.Decode(m); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidRequest, err)
	}
	return nil
}

// DecodePointToPoint turns a request document into model input, resolving
// presets against cat. cat may be nil when no presets are used.
func DecodePointToPoint(doc *structpb.Struct, cat *kb.Catalog) (model.PointToPointInput, error) {
	if doc == nil {
		return model.PointToPointInput{}, fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}
	var req PointToPointRequest
	if err := decodeDocument(doc.AsMap(), &req); err != nil {
		return model.PointToPointInput{}, err
	}

	in := req.PointToPointInput
	if req.GroundPreset != "" {
		g, err := resolveGround(cat, req.GroundPreset, in.Ground)
		if err != nil {
			return model.PointToPointInput{}, err
		}
		in.Ground = g
	}
	return in, nil
}

// DecodeArea turns a request document into model input, resolving presets
// against cat.
func DecodeArea(doc *structpb.Struct, cat *kb.Catalog) (model.AreaInput, error) {
	if doc == nil {
		return model.AreaInput{}, fmt.Errorf("%w: request is required", ErrInvalidRequest)
	}
	var req AreaRequest
	if err := decodeDocument(doc.AsMap(), &req); err != nil {
		return model.AreaInput{}, err
	}

	in := req.AreaInput
	if req.GroundPreset != "" {
		g, err := resolveGround(cat, req.GroundPreset, in.Ground)
		if err != nil {
			return model.AreaInput{}, err
		}
		in.Ground = g
	}
	if req.TXSite != "" {
		s, err := resolveSite(cat, req.TXSite, in.TXHeight)
		if err != nil {
			return model.AreaInput{}, err
		}
		in.TXHeight, in.TXSiting = s.Height, s.Siting
	}
	if req.RXSite != "" {
		s, err := resolveSite(cat, req.RXSite, in.RXHeight)
		if err != nil {
			return model.AreaInput{}, err
		}
		in.RXHeight, in.RXSiting = s.Height, s.Siting
	}
	return in, nil
}

func resolveGround(cat *kb.Catalog, name string, explicit model.Ground) (model.Ground, error) {
	if explicit != (model.Ground{}) {
		return model.Ground{}, fmt.Errorf("%w: ground and ground_preset are mutually exclusive", ErrInvalidRequest)
	}
	if cat == nil {
		return model.Ground{}, fmt.Errorf("%w: ground %q", kb.ErrNotFound, name)
	}
	return cat.Ground(name)
}

func resolveSite(cat *kb.Catalog, name string, explicitHeight float64) (kb.Site, error) {
	if explicitHeight != 0 {
		return kb.Site{}, fmt.Errorf("%w: site %q and an explicit height are mutually exclusive", ErrInvalidRequest, name)
	}
	if cat == nil {
		return kb.Site{}, fmt.Errorf("%w: site %q", kb.ErrNotFound, name)
	}
	return cat.Site(name)
}

// EncodeResult renders a computation outcome as a response document.
func EncodeResult(r core.Result, err error) (*structpb.Struct, error) {
	flags := make([]interface{}, 0)
	for _, name := range r.Warnings.Names() {
		flags = append(flags, name)
	}

	d := r.Diagnostics
	doc := map[string]interface{}{
		"loss_db":       r.LossDB,
		"code":          r.Code(err),
		"warnings":      int64(r.Warnings),
		"warning_flags": flags,
		"mode":          d.Mode.String(),
		"diagnostics": map[string]interface{}{
			"horizon_angles_rad":  pair(d.HorizonAngles),
			"horizon_distances_m": pair(d.HorizonDistances),
			"effective_heights_m": pair(d.EffectiveHeights),
			"delta_h_m":           d.DeltaH,
			"a_ref_db":            d.ReferenceAttenuation,
			"a_fs_db":             d.FreeSpaceLoss,
			"distance_km":         d.DistanceKm,
		},
	}
	return structpb.NewStruct(doc)
}

func pair(v [2]float64) []interface{} {
	return []interface{}{v[0], v[1]}
}

// Response is the decoded form of a response document.
type Response struct {
	LossDB       float64  `mapstructure:"loss_db" json:"loss_db"`
	Code         int      `mapstructure:"code" json:"code"`
	Warnings     uint32   `mapstructure:"warnings" json:"warnings"`
	WarningFlags []string `mapstructure:"warning_flags" json:"warning_flags"`
	Mode         string   `mapstructure:"mode" json:"mode"`
	Diagnostics  struct {
		HorizonAngles        [2]float64 `mapstructure:"horizon_angles_rad" json:"horizon_angles_rad"`
		HorizonDistances     [2]float64 `mapstructure:"horizon_distances_m" json:"horizon_distances_m"`
		EffectiveHeights     [2]float64 `mapstructure:"effective_heights_m" json:"effective_heights_m"`
		DeltaH               float64    `mapstructure:"delta_h_m" json:"delta_h_m"`
		ReferenceAttenuation float64    `mapstructure:"a_ref_db" json:"a_ref_db"`
		FreeSpaceLoss        float64    `mapstructure:"a_fs_db" json:"a_fs_db"`
		DistanceKm           float64    `mapstructure:"distance_km" json:"distance_km"`
	} `mapstructure:"diagnostics" json:"diagnostics"`
}

// DecodeResponse parses a response document.
func DecodeResponse(doc *structpb.Struct) (Response, error) {
	var r Response
	if doc == nil {
		return r, fmt.Errorf("%w: empty response", ErrInvalidRequest)
	}
	if err := mapstructure.Decode(doc.AsMap(), &r); err != nil {
		return r, fmt.Errorf("decode response: %w", err)
	}
	return r, nil
}

// Warning returns the warning bitmask carried by the response.
func (r Response) Warning() model.Warning {
	return model.Warning(r.Warnings)
}
