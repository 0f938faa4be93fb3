// Package log defines standard attribute keys for weak-supervision pipeline
// operations.
//
// This file contains predefined attribute keys that provide consistency across
// all logging operations in lfkit. Using these standard keys enables better
// log analysis, monitoring, and debugging of labeling workflows.
//
// The attributes are organized into categories:
//   - Model and Stage Context
//   - Data Shape and Characteristics
//   - Label Matrix Statistics
//   - Performance Metrics
//   - Error Context
//
// These keys follow a hierarchical naming convention (e.g., "model.name",
// "data.candidates") to enable structured log analysis and filtering.

package log

// Model and Stage Context
// These attributes identify the model type, instance, and pipeline stage being run.
const (
	// ModelNameKey identifies the type of model.
	// Examples: "GenerativeModel", "NoiseAwareLogistic", "MajorityVote"
	ModelNameKey = "model.name"

	// EstimatorIDKey provides a unique identifier for a specific model instance.
	// Examples: "gen-001", "disc-abc123", UUID strings
	EstimatorIDKey = "estimator.id"

	// OperationKey specifies the operation being performed.
	// Standard values: "fit", "predict", "marginals", "transform", "score"
	OperationKey = "ml.operation"

	// StageKey specifies the pipeline stage being run.
	// Standard values: "parse", "extract", "featurize", "label", "supervise", "classify"
	StageKey = "pipeline.stage"

	// ComponentKey identifies which component or package is performing the operation.
	// Examples: "corpus", "label", "learn", "metrics"
	ComponentKey = "ml.component"

	// SplitKey indicates the data split being processed.
	// Standard values: "train", "dev", "test"
	SplitKey = "pipeline.split"
)

// Data Shape and Characteristics
// These attributes describe the structure and properties of data being processed.
const (
	// DocumentsKey indicates the number of documents in a corpus.
	DocumentsKey = "data.documents"

	// PhrasesKey indicates the number of phrases across parsed documents.
	PhrasesKey = "data.phrases"

	// CandidatesKey indicates the number of candidate mention tuples.
	CandidatesKey = "data.candidates"

	// LabelingFunctionsKey indicates the number of labeling functions applied.
	LabelingFunctionsKey = "data.lfs"

	// SamplesKey indicates the number of samples (rows) in a matrix.
	SamplesKey = "data.samples"

	// FeaturesKey indicates the number of features (columns) in a matrix.
	// Important for dimensionality tracking and debugging shape mismatches.
	FeaturesKey = "data.features"

	// VocabSizeKey indicates the size of the learned feature vocabulary.
	VocabSizeKey = "data.vocab_size"

	// NNZKey indicates the number of non-zero entries in a matrix.
	// Useful for tracking the sparsity of label and feature matrices.
	NNZKey = "data.nnz"

	// DependenciesKey indicates the number of detected LF dependencies.
	DependenciesKey = "data.dependencies"
)

// Label Matrix Statistics
// These attributes carry summary statistics of a label matrix.
const (
	// CoverageKey records the fraction of candidates labeled by at least one LF.
	CoverageKey = "labels.coverage"

	// OverlapsKey records the fraction of candidates labeled by two or more LFs.
	OverlapsKey = "labels.overlaps"

	// ConflictsKey records the fraction of candidates with disagreeing LF labels.
	ConflictsKey = "labels.conflicts"

	// FilteredKey records the number of labeling functions removed by a filter pass.
	FilteredKey = "labels.filtered"

	// LFNameKey identifies a single labeling function.
	LFNameKey = "labels.lf_name"
)

// Performance Metrics
// These attributes capture timing, accuracy, and training progress information.
const (
	// DurationMsKey records the execution time of an operation in milliseconds.
	DurationMsKey = "perf.duration_ms"

	// DurationSecondsKey records the execution time in seconds for longer operations.
	DurationSecondsKey = "perf.duration_seconds"

	// AccuracyKey records model accuracy for evaluation operations.
	// Range typically [0.0, 1.0].
	AccuracyKey = "metrics.accuracy"

	// PrecisionKey records precision for evaluation operations.
	PrecisionKey = "metrics.precision"

	// RecallKey records recall for evaluation operations.
	RecallKey = "metrics.recall"

	// F1Key records the F1 score for evaluation operations.
	F1Key = "metrics.f1"

	// LossKey records loss value during training or evaluation.
	LossKey = "metrics.loss"

	// IterationKey records the current iteration number during iterative processes.
	// Useful for tracking convergence in iterative algorithms.
	IterationKey = "training.iteration"

	// EpochKey records the current epoch number during training.
	EpochKey = "training.epoch"

	// DrawsKey records the number of hyperparameter draws in a search.
	DrawsKey = "training.draws"
)

// Error and Warning Context
// These attributes provide additional context for error and warning messages.
const (
	// ErrorCodeKey provides a structured error code for programmatic handling.
	// Examples: "DIMENSION_MISMATCH", "NOT_FITTED", "CONTRACT_VIOLATION"
	ErrorCodeKey = "error.code"

	// ErrorTypeKey categorizes the type of error encountered.
	// Examples: "ContractError", "ValidationError", "NumericalInstabilityError"
	ErrorTypeKey = "error.type"

	// SuggestionKey provides helpful suggestions for resolving issues.
	// Examples: "Check span arity", "Increase epochs"
	SuggestionKey = "error.suggestion"
)

// Hyperparameters and Configuration
// These attributes capture model configuration and hyperparameters.
const (
	// HyperParamsKey contains model hyperparameters as a structured object.
	// Useful for tracking model configuration and reproducibility.
	HyperParamsKey = "model.hyperparams"

	// LearningRateKey records the learning rate for gradient-based algorithms.
	LearningRateKey = "hyperparams.learning_rate"

	// RegularizationKey records regularization strength (L1, L2).
	RegularizationKey = "hyperparams.regularization"

	// ThresholdKey records decision thresholds used for classification.
	ThresholdKey = "hyperparams.threshold"

	// RandomSeedKey records the random seed for reproducibility.
	RandomSeedKey = "config.random_seed"
)

// Standard attribute value constants for common operations.
// Using these constants ensures consistency across the codebase.
const (
	// Standard operations
	OperationFit       = "fit"
	OperationPredict   = "predict"
	OperationMarginals = "marginals"
	OperationTransform = "transform"
	OperationScore     = "score"

	// Standard pipeline stages
	StageParse     = "parse"
	StageExtract   = "extract"
	StageFeaturize = "featurize"
	StageLabel     = "label"
	StageSupervise = "supervise"
	StageClassify  = "classify"

	// Standard error codes
	ErrorNotFitted         = "NOT_FITTED"
	ErrorDimensionMismatch = "DIMENSION_MISMATCH"
	ErrorEmptyData         = "EMPTY_DATA"
	ErrorInvalidInput      = "INVALID_INPUT"
	ErrorConvergence       = "CONVERGENCE_FAILURE"
	ErrorContractViolation = "CONTRACT_VIOLATION"
)
