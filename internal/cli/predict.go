package cli

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/briandowns/spinner"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/yanqian/ppgi-advisor/internal/domain/food"
	"github.com/yanqian/ppgi-advisor/internal/domain/prediction"
	"github.com/yanqian/ppgi-advisor/internal/infra/foodcatalog"
	"github.com/yanqian/ppgi-advisor/internal/infra/historyrepo"
	"github.com/yanqian/ppgi-advisor/internal/infra/predictioncache"
	"github.com/yanqian/ppgi-advisor/internal/infra/predictor/remote"
)

type predictOptions struct {
	endpoint    string
	timeout     time.Duration
	catalogPath string
	req         prediction.Request
	risk        riskFlags
	carb        float64
	protein     float64
	fat         float64
	fiber       float64
}

func newPredictCmd(output *string) *cobra.Command {
	opts := &predictOptions{}

	cmd := &cobra.Command{
		Use:   "predict",
		Short: "Request a PPGI prediction and interpret it",
		Long: `Send the prediction form to the service and interpret the answer.

Nutrients of a known --food are filled from the food table unless given
explicitly. --food-name sends a free text food and disables the autofill.

Examples:
  ppgictl predict --food white_bread --age 42 --weight 70 --waist 85 --gender male
  ppgictl predict --food-name "jackfruit curry" --carb 20 --protein 3 --fat 6 --fiber 4`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runPredict(cmd, opts, *output)
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&opts.endpoint, "endpoint", "http://127.0.0.1:8000", "Base URL of the prediction service")
	flags.DurationVar(&opts.timeout, "timeout", 10*time.Second, "Timeout of the prediction request")
	flags.StringVar(&opts.catalogPath, "catalog", "", "Food table (.yaml or .xlsx) replacing the built-in one")
	flags.StringVar(&opts.req.FoodItem, "food", "", "Food key from the food table")
	flags.StringVar(&opts.req.FoodManualName, "food-name", "", "Free text food name")
	flags.Float64Var(&opts.req.Age, "age", 0, "Age in years")
	flags.Float64Var(&opts.req.Weight, "weight", 0, "Weight in kg")
	flags.Float64Var(&opts.req.WaistCircumference, "waist", 0, "Waist circumference in cm")
	flags.StringVar(&opts.req.BirthPlace, "birth-place", "", "Place of birth")
	flags.Float64Var(&opts.carb, "carb", 0, "Carbohydrate per 100 g")
	flags.Float64Var(&opts.protein, "protein", 0, "Protein per 100 g")
	flags.Float64Var(&opts.fat, "fat", 0, "Fat per 100 g")
	flags.Float64Var(&opts.fiber, "fiber", 0, "Dietary fiber per 100 g")
	opts.risk.register(flags)
	return cmd
}

func runPredict(cmd *cobra.Command, opts *predictOptions, output string) error {
	catalog, err := loadCatalog(opts.catalogPath)
	if err != nil {
		return err
	}

	req := opts.req
	opts.risk.apply(&req)
	flags := cmd.Flags()
	nutrientFlag(flags, "carb", opts.carb, &req.Carb)
	nutrientFlag(flags, "protein", opts.protein, &req.Protein)
	nutrientFlag(flags, "fat", opts.fat, &req.Fat)
	nutrientFlag(flags, "fiber", opts.fiber, &req.DietaryFiber)

	logger := slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{Level: slog.LevelWarn}))
	svc := prediction.NewService(
		prediction.Config{},
		catalog,
		remote.NewClient(opts.endpoint, opts.timeout),
		predictioncache.NewMemoryCache(),
		historyrepo.NewMemoryRepository(),
		logger,
	)

	s := spinner.New(spinner.CharSets[11], 100*time.Millisecond, spinner.WithWriter(cmd.ErrOrStderr()))
	s.Suffix = " Predicting PPGI..."
	s.Start()
	resp, err := svc.Predict(cmd.Context(), req)
	s.Stop()
	if err != nil {
		return fmt.Errorf("prediction failed: %w", err)
	}

	return renderInterpretation(cmd.OutOrStdout(), output, resp.Interpretation, &resp.Food)
}

// nutrientFlag sets dst only when the flag was given, so the food table can
// fill the rest.
func nutrientFlag(flags *pflag.FlagSet, name string, value float64, dst **float64) {
	if flags.Changed(name) {
		*dst = &value
	}
}

func loadCatalog(path string) (*food.Catalog, error) {
	if path == "" {
		return food.DefaultCatalog(), nil
	}
	return foodcatalog.Load(path)
}
