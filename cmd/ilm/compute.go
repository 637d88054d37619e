package main

import (
	"bufio"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/protobuf/types/known/structpb"
	"gopkg.in/yaml.v3"

	"github.com/signalsfoundry/lunar-propagation/core"
	"github.com/signalsfoundry/lunar-propagation/internal/logging"
	"github.com/signalsfoundry/lunar-propagation/internal/nbi"
	"github.com/signalsfoundry/lunar-propagation/model"
)

// flagKeys maps command-line flags onto request document keys. Flags given
// explicitly override the same key from --request.
var flagKeys = map[string]string{
	"tx-height":        "tx_height_m",
	"rx-height":        "rx_height_m",
	"frequency":        "frequency_mhz",
	"polarization":     "polarization",
	"location-percent": "location_percent",
	"ground":           "ground_preset",
	"distance":         "distance_km",
	"delta-h":          "delta_h_m",
	"tx-siting":        "tx_siting",
	"rx-siting":        "rx_siting",
	"tx-site":          "tx_site",
	"rx-site":          "rx_site",

	"effective-angle": "effective_diffraction_angle",
}

type requestFlags struct {
	request string
	profile string
}

func addCommonFlags(fs *pflag.FlagSet, rf *requestFlags) {
	fs.StringVar(&rf.request, "request", "", "YAML request document; flags override its values")
	fs.Float64("tx-height", 0, "transmitter height above ground in meters")
	fs.Float64("rx-height", 0, "receiver height above ground in meters")
	fs.Float64("frequency", 0, "frequency in MHz")
	fs.String("polarization", "vertical", "horizontal or vertical")
	fs.Float64("location-percent", 50, "location variability percentage, 0 < p < 100")
	fs.String("ground", "", "ground preset name from the catalog")
	fs.Float64("epsilon", 0, "relative permittivity of the ground")
	fs.Float64("sigma", 0, "ground conductivity in S/m")
	fs.Bool("effective-angle", false, "evaluate the diffraction line at the effective path angle")
}

func newPointToPointCmd(opts *globalOptions) *cobra.Command {
	rf := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "p2p",
		Short: "Compute loss over a terrain profile",
		Example: `  ilm p2p --profile path.pfl --tx-height 3 --rx-height 2 --frequency 400 --ground mare_regolith
  ilm p2p --request p2p.yaml --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := buildDocument(cmd.Flags(), rf)
			if err != nil {
				return err
			}
			return compute(cmd, opts, "p2p", doc)
		},
	}
	addCommonFlags(cmd.Flags(), rf)
	cmd.Flags().StringVar(&rf.profile, "profile", "", "terrain profile file: whitespace separated np, xi, z0 ... z_np")
	return cmd
}

func newAreaCmd(opts *globalOptions) *cobra.Command {
	rf := &requestFlags{}
	cmd := &cobra.Command{
		Use:   "area",
		Short: "Compute loss from terrain statistics",
		Example: `  ilm area --tx-site lander --rx-site rover --distance 8 --delta-h 40 --frequency 400 --ground mare_regolith
  ilm area --request area.yaml --server localhost:50051`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			doc, err := buildDocument(cmd.Flags(), rf)
			if err != nil {
				return err
			}
			return compute(cmd, opts, "area", doc)
		},
	}
	fs := cmd.Flags()
	addCommonFlags(fs, rf)
	fs.Float64("distance", 0, "path distance in km")
	fs.Float64("delta-h", 0, "terrain irregularity parameter in meters")
	fs.String("tx-siting", "mobile", "transmitter siting criteria: mobile or fixed")
	fs.String("rx-siting", "mobile", "receiver siting criteria: mobile or fixed")
	fs.String("tx-site", "", "transmitter site preset (sets height and siting)")
	fs.String("rx-site", "", "receiver site preset (sets height and siting)")
	return cmd
}

// buildDocument merges the optional request file with explicit flags. Flags
// left at their defaults only fill keys the request file does not set.
func buildDocument(fs *pflag.FlagSet, rf *requestFlags) (map[string]interface{}, error) {
	doc := map[string]interface{}{}
	if rf.request != "" {
		var err error
		if doc, err = readRequest(rf.request); err != nil {
			return nil, err
		}
	}

	var ferr error
	fs.VisitAll(func(f *pflag.Flag) {
		if ferr != nil {
			return
		}
		key, ok := flagKeys[f.Name]
		if !ok {
			return
		}
		_, present := doc[key]
		if !f.Changed && (present || f.DefValue == "" || f.DefValue == "0" || f.DefValue == "false") {
			return
		}
		switch f.Value.Type() {
		case "bool":
			v, err := strconv.ParseBool(f.Value.String())
			if err != nil {
				ferr = fmt.Errorf("--%s: %w", f.Name, err)
				return
			}
			doc[key] = v
			return
		case "float64":
			v, err := strconv.ParseFloat(f.Value.String(), 64)
			if err != nil {
				ferr = fmt.Errorf("--%s: %w", f.Name, err)
				return
			}
			doc[key] = v
			return
		}
		doc[key] = f.Value.String()
	})
	if ferr != nil {
		return nil, ferr
	}

	for _, name := range []string{"epsilon", "sigma"} {
		if !fs.Changed(name) {
			continue
		}
		v, _ := fs.GetFloat64(name)
		ground, _ := doc["ground"].(map[string]interface{})
		if ground == nil {
			ground = map[string]interface{}{}
		}
		ground[name] = v
		doc["ground"] = ground
	}

	if rf.profile != "" {
		pfl, err := readProfile(rf.profile)
		if err != nil {
			return nil, err
		}
		doc["pfl"] = pfl
	}
	return doc, nil
}

func readRequest(path string) (map[string]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	doc := map[string]interface{}{}
	if err := yaml.NewDecoder(f).Decode(&doc); err != nil && err != io.EOF {
		return nil, fmt.Errorf("parse request %s: %w", path, err)
	}
	return doc, nil
}

func readProfile(path string) ([]interface{}, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return parseProfile(f)
}

// parseProfile reads whitespace separated numbers. Lines starting with #
// are ignored.
func parseProfile(r io.Reader) ([]interface{}, error) {
	var out []interface{}
	sc := bufio.NewScanner(r)
	for line := 1; sc.Scan(); line++ {
		text := strings.TrimSpace(sc.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		for _, field := range strings.Fields(text) {
			v, err := strconv.ParseFloat(field, 64)
			if err != nil {
				return nil, fmt.Errorf("profile line %d: %w", line, err)
			}
			out = append(out, v)
		}
	}
	if err := sc.Err(); err != nil {
		return nil, err
	}
	return out, nil
}

func compute(cmd *cobra.Command, opts *globalOptions, kind string, doc map[string]interface{}) error {
	log := opts.logger(cmd.ErrOrStderr())
	ctx, reqID := logging.EnsureRequestID(cmd.Context())
	log = log.With(logging.String("request_id", reqID), logging.String("mode_kind", kind))

	req, err := structpb.NewStruct(doc)
	if err != nil {
		return fmt.Errorf("request document: %w", err)
	}

	var (
		resp     nbi.Response
		warnings model.Warning
	)
	if opts.server != "" {
		resp, err = computeRemote(ctx, opts.server, kind, req)
		if ce, ok := nbi.IsCallError(err); ok {
			warnings = ce.Warnings
		}
	} else {
		resp, warnings, err = computeLocal(opts, kind, req)
	}
	if err != nil {
		log.Warn(ctx, "computation failed", logging.Int("code", resp.Code), logging.Warnings(warnings), logging.Err(err))
		if warnings != model.WarnNone {
			return fmt.Errorf("%w (warnings: %s)", err, warnings)
		}
		return err
	}

	log.Info(ctx, "computation finished",
		logging.Float("loss_db", resp.LossDB),
		logging.String("propagation_mode", resp.Mode),
		logging.Warnings(resp.Warning()),
	)
	return writeResponse(cmd.OutOrStdout(), resp, opts.jsonOutput)
}

// computeLocal runs the model in-process. The returned warnings are also
// meaningful when err is non-nil.
func computeLocal(opts *globalOptions, kind string, req *structpb.Struct) (nbi.Response, model.Warning, error) {
	cat, err := opts.catalog()
	if err != nil {
		return nbi.Response{}, model.WarnNone, err
	}

	var res core.Result
	switch kind {
	case "p2p":
		in, derr := nbi.DecodePointToPoint(req, cat)
		if derr != nil {
			return nbi.Response{}, model.WarnNone, derr
		}
		res, err = core.PointToPointEx(in)
	default:
		in, derr := nbi.DecodeArea(req, cat)
		if derr != nil {
			return nbi.Response{}, model.WarnNone, derr
		}
		res, err = core.AreaEx(in)
	}
	if err != nil {
		return nbi.Response{Code: res.Code(err)}, res.Warnings, err
	}

	out, err := nbi.EncodeResult(res, nil)
	if err != nil {
		return nbi.Response{}, res.Warnings, err
	}
	resp, err := nbi.DecodeResponse(out)
	return resp, res.Warnings, err
}

func computeRemote(ctx context.Context, addr, kind string, req *structpb.Struct) (nbi.Response, error) {
	ctx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	conn, err := grpc.NewClient(addr,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
		grpc.WithUnaryInterceptor(nbi.RequestIDUnaryClientInterceptor()),
	)
	if err != nil {
		return nbi.Response{}, fmt.Errorf("dial %s: %w", addr, err)
	}
	defer conn.Close()

	client := nbi.NewClient(conn)
	if kind == "p2p" {
		return client.PointToPointDocument(ctx, req)
	}
	return client.AreaDocument(ctx, req)
}

func writeResponse(w io.Writer, resp nbi.Response, asJSON bool) error {
	if asJSON {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(resp)
	}

	d := resp.Diagnostics
	fmt.Fprintf(w, "basic transmission loss: %.2f dB\n", resp.LossDB)
	fmt.Fprintf(w, "free space loss:         %.2f dB\n", d.FreeSpaceLoss)
	fmt.Fprintf(w, "reference attenuation:   %.2f dB\n", d.ReferenceAttenuation)
	fmt.Fprintf(w, "propagation mode:        %s\n", resp.Mode)
	fmt.Fprintf(w, "distance:                %.3f km\n", d.DistanceKm)
	fmt.Fprintf(w, "terrain irregularity:    %.2f m\n", d.DeltaH)
	if len(resp.WarningFlags) > 0 {
		fmt.Fprintf(w, "warnings:                %s\n", strings.Join(resp.WarningFlags, ", "))
	}
	return nil
}
