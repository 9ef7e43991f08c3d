package service

import (
	"context"
	"errors"
)

var ErrorInvalidRequest = errors.New("invalid request")

type Servicer interface {
	Expand(ctx context.Context, req *ExpandRequest) (*ExpandResponse, error)
	Catalog() *Catalog
}
