package api

import (
	"context"

	"github.com/fulldump/itemclosure/service"
)

func expand(ctx context.Context, input *service.ExpandRequest) (*service.ExpandResponse, error) {
	return GetServicer(ctx).Expand(ctx, input)
}

func listRepresentations(ctx context.Context) *service.Catalog {
	return GetServicer(ctx).Catalog()
}
