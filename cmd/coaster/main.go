// Command coaster turns a roller-coaster centerline into the accelerometer
// trace a rider would record, then optionally charts, rates and stores it.
package main

import (
	"flag"
	"fmt"
	"io"
	"log"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/banshee-data/coaster.report/internal/config"
	"github.com/banshee-data/coaster.report/internal/db"
	"github.com/banshee-data/coaster.report/internal/features"
	"github.com/banshee-data/coaster.report/internal/geom"
	"github.com/banshee-data/coaster.report/internal/kinematics"
	"github.com/banshee-data/coaster.report/internal/monitoring"
	"github.com/banshee-data/coaster.report/internal/recording"
	"github.com/banshee-data/coaster.report/internal/report"
	"github.com/banshee-data/coaster.report/internal/scoring"
	"github.com/banshee-data/coaster.report/internal/units"
	"github.com/banshee-data/coaster.report/internal/version"
)

var (
	pointsPath  = flag.String("points", "", "Track centerline CSV (x,y,z in meters)")
	configPath  = flag.String("config", "", "Physics config file (.json, .yaml or .yml)")
	mode        = flag.String("mode", "", "Speed model override: energy or dynamics")
	v0          = flag.Float64("v0", 0, "Initial speed override (m/s)")
	dt          = flag.Float64("dt", 0, "Sample interval override (seconds)")
	kernel      = flag.String("kernel", "auto", "Dynamics integrator: auto, scalar or fma")
	outPath     = flag.String("out", "", "Accelerometer CSV output (default stdout)")
	pngPath     = flag.String("png", "", "Write an accelerometer chart image (.png, .svg or .pdf)")
	htmlPath    = flag.String("html", "", "Write an interactive HTML chart")
	modelPath   = flag.String("model", "", "Trained scorer model (.json); rule-based scoring when empty")
	dbPath      = flag.String("db", "", "Ride store sqlite database")
	rideName    = flag.String("name", "", "Ride name stored with -db (default: points file name)")
	leaderboard = flag.Int("leaderboard", 0, "Print the top N rides from -db")
	speedUnits  = flag.String("speed-units", units.MPS, "Units for reported speeds: "+units.ValidSpeedUnitsString())
	quiet       = flag.Bool("quiet", false, "Suppress diagnostics")
	showVersion = flag.Bool("version", false, "Print version and exit")
)

// options is the parsed command line.
type options struct {
	PointsPath  string
	ConfigPath  string
	Mode        string
	V0          *float64
	DT          *float64
	Kernel      string
	OutPath     string
	PNGPath     string
	HTMLPath    string
	ModelPath   string
	DBPath      string
	RideName    string
	Leaderboard int
	SpeedUnits  string
	Quiet       bool
}

func optionsFromFlags() options {
	set := make(map[string]bool)
	flag.Visit(func(f *flag.Flag) { set[f.Name] = true })

	o := options{
		PointsPath:  *pointsPath,
		ConfigPath:  *configPath,
		Mode:        *mode,
		Kernel:      *kernel,
		OutPath:     *outPath,
		PNGPath:     *pngPath,
		HTMLPath:    *htmlPath,
		ModelPath:   *modelPath,
		DBPath:      *dbPath,
		RideName:    *rideName,
		Leaderboard: *leaderboard,
		SpeedUnits:  *speedUnits,
		Quiet:       *quiet,
	}
	if set["v0"] {
		o.V0 = v0
	}
	if set["dt"] {
		o.DT = dt
	}
	return o
}

func main() {
	flag.Parse()
	if *showVersion {
		fmt.Println(version.String("coaster"))
		return
	}

	o := optionsFromFlags()
	if o.PointsPath == "" && o.Leaderboard == 0 {
		flag.Usage()
		log.Fatal("-points is required")
	}
	if err := run(o, os.Stdout); err != nil {
		log.Fatalf("coaster: %v", err)
	}
}

// run executes one invocation. Accelerometer CSV goes to stdout when no
// -out path is given; everything else goes to files or the log.
func run(o options, stdout io.Writer) error {
	if o.Quiet {
		monitoring.SetLogger(nil)
	}
	if !units.IsValidSpeed(o.SpeedUnits) {
		return fmt.Errorf("invalid speed units %q, want one of %s", o.SpeedUnits, units.ValidSpeedUnitsString())
	}

	if o.PointsPath == "" {
		return printLeaderboard(o, stdout)
	}

	params, err := loadParameters(o)
	if err != nil {
		return err
	}
	integrator, err := kernelFor(o.Kernel)
	if err != nil {
		return err
	}

	points, err := readPoints(o.PointsPath)
	if err != nil {
		return err
	}

	res, err := kinematics.NewEngine(integrator).Synthesize(points, params)
	if err != nil {
		return err
	}

	if err := writeSamples(o.OutPath, stdout, res.Samples); err != nil {
		return err
	}
	if o.PNGPath != "" {
		if err := report.RenderPNG(res.Samples, rideTitle(o), o.PNGPath); err != nil {
			return err
		}
	}
	if o.HTMLPath != "" {
		if err := writeHTML(o.HTMLPath, res, rideTitle(o)); err != nil {
			return err
		}
	}

	md := features.MetadataFromTrack(points, res)
	vec, err := features.Extract(res.Samples, md)
	if err != nil {
		return err
	}
	scorer, err := scorerFor(o.ModelPath)
	if err != nil {
		return err
	}
	rating, err := scorer.Score(vec)
	if err != nil {
		return err
	}

	if !o.Quiet {
		logSummary(o, res, md, rating)
	}

	if o.DBPath == "" {
		return nil
	}
	store, err := db.NewDB(o.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()

	id, err := store.RecordRide(rideSummary(rideTitle(o), params, res, md, vec, rating), res.Samples)
	if err != nil {
		return err
	}
	if !o.Quiet {
		log.Printf("stored ride %s in %s", id, o.DBPath)
	}
	if o.Leaderboard > 0 {
		return writeLeaderboard(store, o, stdout)
	}
	return nil
}

func loadParameters(o options) (kinematics.Parameters, error) {
	cfg := config.EmptyPhysicsConfig()
	if o.ConfigPath != "" {
		var err error
		if cfg, err = config.LoadPhysicsConfig(o.ConfigPath); err != nil {
			return kinematics.Parameters{}, err
		}
	}
	if o.Mode != "" {
		m := o.Mode
		cfg.Mode = &m
	}
	if o.V0 != nil {
		cfg.InitialSpeed = o.V0
	}
	if o.DT != nil {
		cfg.DT = o.DT
	}
	return kinematics.ParametersFromConfig(cfg)
}

func kernelFor(name string) (kinematics.Integrator, error) {
	switch strings.ToLower(name) {
	case "", "auto":
		return nil, nil
	case "scalar":
		return kinematics.ScalarIntegrator{}, nil
	case "fma":
		return kinematics.FMAIntegrator{}, nil
	}
	return nil, fmt.Errorf("unknown integrator %q, want auto, scalar or fma", name)
}

func scorerFor(path string) (scoring.Scorer, error) {
	if path == "" {
		return scoring.NewRuleScorer(), nil
	}
	h := scoring.NewHandle()
	if err := h.Load(path); err != nil {
		return nil, err
	}
	return h, nil
}

func readPoints(path string) (geom.Polyline, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open points file: %w", err)
	}
	defer f.Close()

	p, err := recording.ReadPolyline(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	if err := p.ValidateFinite(); err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

func writeSamples(path string, stdout io.Writer, samples []kinematics.AccelerometerSample) error {
	if path == "" {
		return recording.WriteAccelerometer(stdout, samples)
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create output file: %w", err)
	}
	if err := recording.WriteAccelerometer(f, samples); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func writeHTML(path string, res *kinematics.Result, title string) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create HTML file: %w", err)
	}
	if err := report.RenderRideHTML(f, res, title); err != nil {
		f.Close()
		return err
	}
	return f.Close()
}

func rideTitle(o options) string {
	if o.RideName != "" {
		return o.RideName
	}
	name := o.PointsPath
	if i := strings.LastIndexAny(name, `/\`); i >= 0 {
		name = name[i+1:]
	}
	return strings.TrimSuffix(name, ".csv")
}

func logSummary(o options, res *kinematics.Result, md features.Metadata, rating scoring.Rating) {
	log.Printf("%s: %d samples over %.2fs, %s model", rideTitle(o), len(res.Samples), res.Duration(), res.Model)
	log.Printf("peak speed %.1f %s, height %.1f m, length %.1f m",
		units.ConvertSpeed(md.SpeedMps, o.SpeedUnits), o.SpeedUnits, md.HeightM, md.LengthM)
	if res.Stalled {
		log.Printf("vehicle stalls at sample %d (t=%.2fs)", res.StallIndex, res.Samples[res.StallIndex].Time)
	}
	log.Printf("rating: fun %.1f/10, safety %.1f/10 (%s)", rating.Fun, rating.Safety, rating.Model)
}

// rideSummary flattens one run into a stored ride.
func rideSummary(name string, params kinematics.Parameters, res *kinematics.Result, md features.Metadata, vec features.Vector, rating scoring.Rating) db.Ride {
	return db.Ride{
		Name:         name,
		SpeedModel:   res.Model,
		Integrator:   res.Integrator,
		InitialSpeed: params.InitialSpeed,
		DT:           params.DT,
		DurationS:    res.Duration(),
		PeakSpeedMps: md.SpeedMps,
		HeightM:      md.HeightM,
		LengthM:      md.LengthM,
		MaxVerticalG: vec[features.IdxMaxVertical],
		MinVerticalG: vec[features.IdxMinVertical],
		MaxLateralG:  vec[features.IdxMaxAbsLateral],
		Stalled:      res.Stalled,
		StallIndex:   res.StallIndex,
		Fun:          rating.Fun,
		Safety:       rating.Safety,
		RatingModel:  rating.Model,
	}
}

func printLeaderboard(o options, stdout io.Writer) error {
	if o.DBPath == "" {
		return fmt.Errorf("-leaderboard needs -db")
	}
	store, err := db.NewDB(o.DBPath)
	if err != nil {
		return err
	}
	defer store.Close()
	return writeLeaderboard(store, o, stdout)
}

func writeLeaderboard(store *db.DB, o options, stdout io.Writer) error {
	rides, err := store.Leaderboard(o.Leaderboard)
	if err != nil {
		return err
	}
	tw := tabwriter.NewWriter(stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(tw, "RANK\tNAME\tFUN\tSAFETY\tPEAK SPEED (%s)\tMAX G\tMODEL\n", o.SpeedUnits)
	for i, r := range rides {
		fmt.Fprintf(tw, "%d\t%s\t%.1f\t%.1f\t%.1f\t%.2f\t%s\n",
			i+1, r.Name, r.Fun, r.Safety, units.ConvertSpeed(r.PeakSpeedMps, o.SpeedUnits), r.MaxVerticalG, r.RatingModel)
	}
	return tw.Flush()
}
