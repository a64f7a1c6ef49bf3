package endpoints

import "context"

// CorporationPublicInfo returns public information about a corporation.
func CorporationPublicInfo(ctx context.Context, r Requester, corporationID int64) (any, error) {
	return r.Get(ctx, "/corporations/"+id(corporationID)+"/", nil, nil)
}
