package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pkg/errors"
	"gopkg.in/yaml.v3"
	"k8s.io/klog/v2"

	"github.com/born-ml/ndarray/tensor"
)

// selectionRow describes the result of indexing the array with one key.
type selectionRow struct {
	key       string
	selection string
	shape     tensor.Shape
	values    string
}

// report is everything the CLI prints about one literal.
type report struct {
	backend  string
	dtype    tensor.DataType
	inferred tensor.Shape
	depth    int
	shape    tensor.Shape
	array    string
	rows     []selectionRow
}

// parseLiteral decodes a nested list literal. YAML flow syntax is a superset of
// JSON and keeps integers apart from floats.
func parseLiteral(text string) (any, error) {
	var literal any
	if err := yaml.Unmarshal([]byte(text), &literal); err != nil {
		return nil, errors.Wrapf(err, "cannot parse literal %q", text)
	}
	return literal, nil
}

// inspect infers the literal's shape within -max_depth for the report, then
// materializes the literal at full depth, applies -op and selects every key.
func inspect(cfg *config, literalText string, keyTexts []string) (*report, error) {
	literal, err := parseLiteral(literalText)
	if err != nil {
		return nil, err
	}
	inferred, depth, err := tensor.InferShape(literal, cfg.maxDepth)
	if err != nil {
		return nil, err
	}
	klog.V(1).Infof("literal %s: shape %v, depth %d", literalText, inferred, depth)

	b, err := cfg.newBackend()
	if err != nil {
		return nil, err
	}
	f := tensor.NewFactory(b, tensor.WithDType(cfg.dtype))
	x, err := f.Array(literal)
	if err != nil {
		return nil, err
	}
	if x, err = applyOperand(cfg, f, x); err != nil {
		return nil, err
	}

	r := &report{
		backend:  b.Name(),
		dtype:    x.DType(),
		inferred: inferred,
		depth:    depth,
		shape:    x.Shape(),
		array:    x.String(),
	}
	for _, text := range keyTexts {
		row, err := selectRow(x, text)
		if err != nil {
			return nil, err
		}
		r.rows = append(r.rows, row)
	}
	return r, nil
}

// applyOperand applies -op with -operand, if set. Number operands use host
// arithmetic; list operands are built into a tensor first.
func applyOperand(cfg *config, f *tensor.Factory, x *tensor.Tensor) (*tensor.Tensor, error) {
	op, ok, err := cfg.binaryOp()
	if err != nil || !ok {
		return x, err
	}
	operand, err := parseLiteral(cfg.operand)
	if err != nil {
		return nil, err
	}
	var other any = operand
	if _, isList := operand.([]any); isList {
		if other, err = f.Array(operand); err != nil {
			return nil, errors.WithMessage(err, "operand")
		}
	}
	return x.Apply(op, other)
}

func selectRow(x *tensor.Tensor, keyText string) (selectionRow, error) {
	key, err := tensor.ParseKey(keyText)
	if err != nil {
		return selectionRow{}, err
	}
	sel, err := tensor.Plan(x.Shape(), key)
	if err != nil {
		return selectionRow{}, errors.WithMessagef(err, "key %s", keyText)
	}
	y, err := x.Get(key)
	if err != nil {
		return selectionRow{}, errors.WithMessagef(err, "key %s", keyText)
	}
	values, err := y.Values()
	if err != nil {
		return selectionRow{}, err
	}
	return selectionRow{
		key:       key.String(),
		selection: fmt.Sprint(sel),
		shape:     y.Shape(),
		values:    formatValues(values),
	}, nil
}

func formatValues(values []float64) string {
	parts := make([]string, len(values))
	for i, v := range values {
		parts[i] = strconv.FormatFloat(v, 'g', -1, 64)
	}
	return "[" + strings.Join(parts, " ") + "]"
}
