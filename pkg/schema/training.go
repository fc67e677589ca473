package schema

// Training builds the option schema for the transformer-VAE trainer.
// The flag surface mirrors the trainer's argument groups: run control,
// model selection, data selection, and the regulariser schedule.
func Training() *Schema {
	s := New()

	// Run control
	s.MustDefine(Option{Name: "output-dir", Kind: KindString, Required: true})
	s.MustDefine(Option{Name: "run-name", Kind: KindString})
	s.MustDefine(Option{Name: "project-name", Kind: KindString})
	s.MustDefine(Option{Name: "do-train", Kind: KindFlag, Default: false})
	s.MustDefine(Option{Name: "do-eval", Kind: KindFlag, Default: false})
	s.MustDefine(Option{Name: "overwrite-output-dir", Kind: KindFlag, Default: false})
	s.MustDefine(Option{Name: "evaluation-strategy", Kind: KindString, Default: "steps",
		OneOf: []string{"no", "steps", "epoch"}})
	s.MustDefine(Option{Name: "logging-steps", Kind: KindInteger, Default: 500})
	s.MustDefine(Option{Name: "save-steps", Kind: KindInteger, Default: 500})
	s.MustDefine(Option{Name: "save-total-limit", Kind: KindInteger, Default: 1})
	s.MustDefine(Option{Name: "seed", Kind: KindInteger, Default: 42})

	// Model selection
	s.MustDefine(Option{Name: "transformer-type", Kind: KindString, Default: "t5",
		OneOf: []string{"t5", "funnel"}})
	s.MustDefine(Option{Name: "t5-model-name", Kind: KindString})
	s.MustDefine(Option{Name: "model-path", Kind: KindString})
	s.MustDefine(Option{Name: "tokenizer-name", Kind: KindString})
	s.MustDefine(Option{Name: "vocab-file", Kind: KindString})
	s.MustDefine(Option{Name: "cache-dir", Kind: KindString})
	s.MustDefine(Option{Name: "ae-latent-size", Kind: KindInteger})
	s.MustDefine(Option{Name: "set-seq-size", Kind: KindInteger})
	s.MustDefine(Option{Name: "encoded-seq-size", Kind: KindInteger})
	s.MustDefine(Option{Name: "n-previous-latent-codes", Kind: KindInteger, Default: 0})

	// Data selection
	s.MustDefine(Option{Name: "dataset-name", Kind: KindString})
	s.MustDefine(Option{Name: "text-column", Kind: KindString})
	s.MustDefine(Option{Name: "train-data-file", Kind: KindString})
	s.MustDefine(Option{Name: "overwrite-cache", Kind: KindFlag, Default: false})

	// Optimisation and regulariser schedule
	s.MustDefine(Option{Name: "per-device-train-batch-size", Kind: KindInteger, Default: 8})
	s.MustDefine(Option{Name: "gradient-accumulation-steps", Kind: KindInteger, Default: 1})
	s.MustDefine(Option{Name: "learning-rate", Kind: KindFloat, Default: 5e-5})
	// 0 disables masking; the trainer owns that behaviour, we only carry the value.
	s.MustDefine(Option{Name: "mlm-probability", Kind: KindFloat, Default: 0.0})
	s.MustDefine(Option{Name: "reg-schedule-k", Kind: KindFloat, Default: 0.0025})
	s.MustDefine(Option{Name: "reg-schedule-b", Kind: KindFloat, Default: 6.25})
	s.MustDefine(Option{Name: "reg-constant-weight", Kind: KindFloat})
	s.MustDefine(Option{Name: "use-recon-loss", Kind: KindFlag, Default: false})

	return s
}
