// Package errors はプロジェクト全体のエラーハンドリングと警告システムを提供します。
// 状態レジストリ、データセット、分類器の構成に関する構造化されたエラー情報を提供します。
package errors

import (
	"fmt"
	"log"
	"sync"

	"github.com/cockroachdb/errors"
	"github.com/rs/zerolog"
)

// ===========================================================================
//
//	グローバル警告ハンドリング
//
// ===========================================================================
var (
	warningMutex   sync.Mutex
	warningHandler = func(w error) {
		// デフォルトのハンドラは標準エラー出力にログを出す
		log.Printf("gomvpa-Warning: %v\n", w)
	}
	// zerologロガー（循環importを避けるため遅延初期化）
	zerologWarnFunc func(warning error)
)

// SetWarningHandler はライブラリ全体の警告ハンドラを設定します。
// これにより、TiedVoteWarningなどのカスタム警告の処理方法を制御できます。
//
// 例:
//
//	errors.SetWarningHandler(func(w error) {
//	    // 警告を無視する
//	})
func SetWarningHandler(handler func(w error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	warningHandler = handler
}

// SetZerologWarnFunc はzerolog警告関数を設定します（循環importを避けるため）。
// nil を渡すと従来のハンドラに戻ります。
func SetZerologWarnFunc(warnFunc func(warning error)) {
	warningMutex.Lock()
	defer warningMutex.Unlock()
	zerologWarnFunc = warnFunc
}

// Warn は警告を発生させます。
// zerologが利用可能な場合は構造化ログとして出力し、そうでなければ従来のハンドラを使用します。
func Warn(w error) {
	warningMutex.Lock()
	defer warningMutex.Unlock()

	// zerologが設定されている場合は優先的に使用
	if zerologWarnFunc != nil {
		zerologWarnFunc(w)
		return
	}

	// フォールバック: 従来のハンドラ
	if warningHandler != nil {
		warningHandler(w)
	}
}

// ===========================================================================
//
//	警告型
//
// ===========================================================================

// ConvergenceWarning は最適化アルゴリズムが収束しなかった場合に発生する警告です。
type ConvergenceWarning struct {
	Algorithm  string
	Iterations int
	Message    string
}

func (w *ConvergenceWarning) Error() string {
	if w.Message != "" {
		return fmt.Sprintf("%s failed to converge after %d iterations: %s", w.Algorithm, w.Iterations, w.Message)
	}
	return fmt.Sprintf("%s failed to converge after %d iterations. Consider increasing max_iter or adjusting parameters.", w.Algorithm, w.Iterations)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConvergenceWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("algorithm", w.Algorithm).
		Int("iterations", w.Iterations).
		Str("message", w.Message).
		Str("type", "ConvergenceWarning")
}

// NewConvergenceWarning は新しいConvergenceWarningを作成します。
func NewConvergenceWarning(algorithm string, iterations int, message string) *ConvergenceWarning {
	return &ConvergenceWarning{Algorithm: algorithm, Iterations: iterations, Message: message}
}

// TiedVoteWarning は多数決で最大得票のラベルが複数存在した場合の警告です。
// 投票は決定的に最小のラベルを選択して続行します。
type TiedVoteWarning struct {
	Sample int
	Labels []float64
	Votes  int
	Chosen float64
}

func (w *TiedVoteWarning) Error() string {
	return fmt.Sprintf("sample %d: labels %v share the maximal vote %d, choosing %v", w.Sample, w.Labels, w.Votes, w.Chosen)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *TiedVoteWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Int("sample", w.Sample).
		Floats64("labels", w.Labels).
		Int("votes", w.Votes).
		Float64("chosen", w.Chosen).
		Str("type", "TiedVoteWarning")
}

// NewTiedVoteWarning は新しいTiedVoteWarningを作成します。
func NewTiedVoteWarning(sample int, labels []float64, votes int, chosen float64) *TiedVoteWarning {
	return &TiedVoteWarning{Sample: sample, Labels: labels, Votes: votes, Chosen: chosen}
}

// ConfigurationWarning は設定が矛盾しているが処理は続行できる場合の警告です。
type ConfigurationWarning struct {
	Component string
	Message   string
}

func (w *ConfigurationWarning) Error() string {
	return fmt.Sprintf("%s: %s", w.Component, w.Message)
}

// MarshalZerologObject はzerologのイベントに構造化された警告情報を追加します。
func (w *ConfigurationWarning) MarshalZerologObject(e *zerolog.Event) {
	e.Str("component", w.Component).
		Str("message", w.Message).
		Str("type", "ConfigurationWarning")
}

// NewConfigurationWarning は新しいConfigurationWarningを作成します。
func NewConfigurationWarning(component, message string) *ConfigurationWarning {
	return &ConfigurationWarning{Component: component, Message: message}
}

// UndefinedMetricWarning は評価指標が計算できない場合に発生する警告です。
type UndefinedMetricWarning struct {
	Metric    string
	Condition string
	Result    float64 // この条件で返される値
}

func (w *UndefinedMetricWarning) Error() string {
	return fmt.Sprintf("'%s' is ill-defined and being set to %f due to %s.", w.Metric, w.Result, w.Condition)
}

// NewUndefinedMetricWarning は新しいUndefinedMetricWarningを作成します。
func NewUndefinedMetricWarning(metric, condition string, result float64) *UndefinedMetricWarning {
	return &UndefinedMetricWarning{Metric: metric, Condition: condition, Result: result}
}

// ===========================================================================
//
//	状態レジストリのエラー型
//
// ===========================================================================

// UnknownStateError は登録されていない状態名にアクセスした場合のエラーです。
type UnknownStateError struct {
	Name string
}

func (e *UnknownStateError) Error() string {
	return fmt.Sprintf("gomvpa: unknown state %q", e.Name)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *UnknownStateError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("state", e.Name).Str("type", "UnknownStateError")
}

// NewUnknownStateError は新しいUnknownStateErrorを作成し、スタックトレースを付与します。
func NewUnknownStateError(name string) error {
	return errors.WithStack(&UnknownStateError{Name: name})
}

// DisabledStateError は無効化された状態の値を読み出そうとした場合のエラーです。
type DisabledStateError struct {
	Name string
}

func (e *DisabledStateError) Error() string {
	return fmt.Sprintf("gomvpa: state %q is disabled. Enable it before reading", e.Name)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *DisabledStateError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("state", e.Name).Str("type", "DisabledStateError")
}

// NewDisabledStateError は新しいDisabledStateErrorを作成し、スタックトレースを付与します。
func NewDisabledStateError(name string) error {
	return errors.WithStack(&DisabledStateError{Name: name})
}

// NoValueSetError は一度も値が設定されていない状態を読み出した場合のエラーです。
type NoValueSetError struct {
	Name string
}

func (e *NoValueSetError) Error() string {
	return fmt.Sprintf("gomvpa: state %q has no value set yet", e.Name)
}

// NewNoValueSetError は新しいNoValueSetErrorを作成し、スタックトレースを付与します。
func NewNoValueSetError(name string) error {
	return errors.WithStack(&NoValueSetError{Name: name})
}

// DuplicateStateError は同じ名前の状態を二重に登録しようとした場合のエラーです。
type DuplicateStateError struct {
	Name string
}

func (e *DuplicateStateError) Error() string {
	return fmt.Sprintf("gomvpa: state %q is already registered", e.Name)
}

// NewDuplicateStateError は新しいDuplicateStateErrorを作成し、スタックトレースを付与します。
func NewDuplicateStateError(name string) error {
	return errors.WithStack(&DuplicateStateError{Name: name})
}

// TemporaryStateError は一時的な有効化のスコープが不正に使われた場合のエラーです。
// 解除前の再取得、または取得していないスコープの解除で発生します。
type TemporaryStateError struct {
	Reason string
}

func (e *TemporaryStateError) Error() string {
	return fmt.Sprintf("gomvpa: temporary state enablement: %s", e.Reason)
}

// NewTemporaryStateError は新しいTemporaryStateErrorを作成し、スタックトレースを付与します。
func NewTemporaryStateError(reason string) error {
	return errors.WithStack(&TemporaryStateError{Reason: reason})
}

// ===========================================================================
//
//	データセットのエラー型
//
// ===========================================================================

// ShapeMismatchError は2つのデータの形状が一致しない場合のエラーです。
type ShapeMismatchError struct {
	Op       string
	Expected int
	Got      int
	Axis     int // 0 for samples, 1 for features
}

func (e *ShapeMismatchError) Error() string {
	axisName := "features"
	if e.Axis == 0 {
		axisName = "samples"
	}
	return fmt.Sprintf("gomvpa: %s: shape mismatch on axis %d (%s). Expected %d, got %d", e.Op, e.Axis, axisName, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ShapeMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Int("axis", e.Axis).
		Str("type", "ShapeMismatchError")
}

// NewShapeMismatchError は新しいShapeMismatchErrorを作成し、スタックトレースを付与します。
func NewShapeMismatchError(op string, expected, got, axis int) error {
	return errors.WithStack(&ShapeMismatchError{Op: op, Expected: expected, Got: got, Axis: axis})
}

// LengthMismatchError はシーケンスの長さが期待値と異なる場合のエラーです。
// 例えば、ラベル数とサンプル数が一致しない場合など。
type LengthMismatchError struct {
	Op       string
	What     string
	Expected int
	Got      int
}

func (e *LengthMismatchError) Error() string {
	return fmt.Sprintf("gomvpa: %s: length of %s must be %d, got %d", e.Op, e.What, e.Expected, e.Got)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *LengthMismatchError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("operation", e.Op).
		Str("what", e.What).
		Int("expected", e.Expected).
		Int("got", e.Got).
		Str("type", "LengthMismatchError")
}

// NewLengthMismatchError は新しいLengthMismatchErrorを作成し、スタックトレースを付与します。
func NewLengthMismatchError(op, what string, expected, got int) error {
	return errors.WithStack(&LengthMismatchError{Op: op, What: what, Expected: expected, Got: got})
}

// NoPermutationActiveError はラベルの並べ替えが有効でないのに元に戻そうとした場合のエラーです。
type NoPermutationActiveError struct{}

func (e *NoPermutationActiveError) Error() string {
	return "gomvpa: cannot restore labels, PermuteLabels has never been called with enable == true"
}

// NewNoPermutationActiveError は新しいNoPermutationActiveErrorを作成し、スタックトレースを付与します。
func NewNoPermutationActiveError() error {
	return errors.WithStack(&NoPermutationActiveError{})
}

// ===========================================================================
//
//	分類器のエラー型
//
// ===========================================================================

// NotTrainedError は分類器が未学習の状態で `Predict` を呼び出した場合のエラーです。
type NotTrainedError struct {
	ModelName string
	Method    string
}

func (e *NotTrainedError) Error() string {
	return fmt.Sprintf("gomvpa: %s: this classifier is not trained yet. Call Train() before using %s()", e.ModelName, e.Method)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *NotTrainedError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("model_name", e.ModelName).
		Str("method", e.Method).
		Str("type", "NotTrainedError")
}

// NewNotTrainedError は新しいNotTrainedErrorを作成し、スタックトレースを付与します。
func NewNotTrainedError(modelName, method string) error {
	return errors.WithStack(&NotTrainedError{ModelName: modelName, Method: method})
}

// OverlappingLabelsError はBinaryClassifierの正例と負例のラベル集合が重なる場合のエラーです。
type OverlappingLabelsError struct {
	Overlap []float64
}

func (e *OverlappingLabelsError) Error() string {
	return fmt.Sprintf("gomvpa: sets of positive and negative labels must not overlap. Got overlap %v", e.Overlap)
}

// NewOverlappingLabelsError は新しいOverlappingLabelsErrorを作成し、スタックトレースを付与します。
func NewOverlappingLabelsError(overlap []float64) error {
	return errors.WithStack(&OverlappingLabelsError{Overlap: overlap})
}

// InvalidConfigurationError は未知の戦略名など、構成が不正な場合のエラーです。
type InvalidConfigurationError struct {
	Component string
	Option    string
	Value     interface{}
}

func (e *InvalidConfigurationError) Error() string {
	return fmt.Sprintf("gomvpa: %s: invalid value %v for option %q", e.Component, e.Value, e.Option)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *InvalidConfigurationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("component", e.Component).
		Str("option", e.Option).
		Interface("value", e.Value).
		Str("type", "InvalidConfigurationError")
}

// NewInvalidConfigurationError は新しいInvalidConfigurationErrorを作成し、スタックトレースを付与します。
func NewInvalidConfigurationError(component, option string, value interface{}) error {
	return errors.WithStack(&InvalidConfigurationError{Component: component, Option: option, Value: value})
}

// PreconditionError はコンバイナーなどが必要とする状態が有効になっていない場合のエラーです。
type PreconditionError struct {
	Op      string
	Message string
}

func (e *PreconditionError) Error() string {
	return fmt.Sprintf("gomvpa: %s: precondition failed: %s", e.Op, e.Message)
}

// NewPreconditionError は新しいPreconditionErrorを作成し、スタックトレースを付与します。
func NewPreconditionError(op, message string) error {
	return errors.WithStack(&PreconditionError{Op: op, Message: message})
}

// ===========================================================================
//
//	汎用エラー型
//
// ===========================================================================

// ValidationError は入力パラメータの検証に失敗した場合のエラーです。
type ValidationError struct {
	ParamName string
	Reason    string
	Value     interface{}
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("gomvpa: validation failed for parameter '%s': %s (got: %v)", e.ParamName, e.Reason, e.Value)
}

// MarshalZerologObject はzerologのイベントに構造化されたエラー情報を追加します。
func (e *ValidationError) MarshalZerologObject(event *zerolog.Event) {
	event.Str("param_name", e.ParamName).
		Str("reason", e.Reason).
		Interface("value", e.Value).
		Str("type", "ValidationError")
}

// NewValidationError は新しいValidationErrorを作成し、スタックトレースを付与します。
func NewValidationError(param, reason string, value interface{}) error {
	return errors.WithStack(&ValidationError{ParamName: param, Reason: reason, Value: value})
}

// ModelError は分類器や測度に関する一般的なエラーです。
type ModelError struct {
	Op   string
	Kind string
	Err  error
}

func (e *ModelError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gomvpa: %s: %s: %v", e.Op, e.Kind, e.Err)
	}
	return fmt.Sprintf("gomvpa: %s: %s", e.Op, e.Kind)
}

func (e *ModelError) Unwrap() error {
	return e.Err
}

// NewModelError は新しいModelErrorを作成し、スタックトレースを付与します。
func NewModelError(op, kind string, err error) error {
	return errors.WithStack(&ModelError{Op: op, Kind: kind, Err: err})
}

// ===========================================================================
//
//	cockroachdb/errors ラッパー関数
//
// ===========================================================================

// Is はエラーが特定のターゲットエラーかどうかを判定します。
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As はエラーが特定の型にキャスト可能かどうかを判定します。
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}

// Wrap は既存のエラーをメッセージ付きでラップします。
func Wrap(err error, message string) error {
	return errors.Wrap(err, message)
}

// Wrapf は既存のエラーをフォーマット文字列でラップします。
func Wrapf(err error, format string, args ...interface{}) error {
	return errors.Wrapf(err, format, args...)
}

// New は新しいエラーを作成します。
func New(message string) error {
	return errors.New(message)
}

// Newf は新しいフォーマット済みエラーを作成します。
func Newf(format string, args ...interface{}) error {
	return errors.Newf(format, args...)
}

// WithStack はエラーにスタックトレースを付与します。
func WithStack(err error) error {
	return errors.WithStack(err)
}

// GetSafeDetails はエラーに付与された安全な詳細情報（スタックトレース等）を返します。
func GetSafeDetails(err error) []string {
	return errors.GetSafeDetails(err).SafeDetails
}

// ===========================================================================
//
//	共通エラー変数
//
// ===========================================================================

var (
	// ErrNotImplemented は機能が未実装の場合のエラーです。
	ErrNotImplemented = New("not implemented")

	// ErrEmptyData は空のデータが渡された場合のエラーです。
	ErrEmptyData = New("empty data")

	// ErrSingularMatrix は特異行列の場合のエラーです。
	ErrSingularMatrix = New("singular matrix")
)
