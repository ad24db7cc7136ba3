package ast

import (
	"strconv"

	"github.com/homegraft/hearth/internal/numeric"
)

func parseInt(s string) (int64, error) {
	return strconv.ParseInt(s, 10, 64)
}

func parseFloat(s string) (numeric.Float, error) {
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return numeric.Float{}, err
	}
	return numeric.New(v)
}
