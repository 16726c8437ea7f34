package details

import (
	"github.com/RacoonMediaServer/rms-moviefinder/internal/catalog"
	"github.com/RacoonMediaServer/rms-moviefinder/internal/model"
)

const (
	trailerType = "Trailer"
	trailerSite = "YouTube"
)

func findTrailer(videos []catalog.Video) *model.Trailer {
	for _, v := range videos {
		if v.Type == trailerType && v.Site == trailerSite {
			return &model.Trailer{Key: v.Key, Name: v.Name}
		}
	}
	return nil
}

func leadCast(cast []model.CastMember, limit int) []model.CastMember {
	if len(cast) > limit {
		cast = cast[:limit]
	}
	return append([]model.CastMember{}, cast...)
}

func convertDetails(in *catalog.Details) *model.MovieDetails {
	return &model.MovieDetails{
		Movie:    in.Movie,
		Overview: in.Overview,
		Runtime:  in.Runtime,
		Genres:   in.Genres,
		Cast:     leadCast(in.Credits.Cast, model.MaxCast),
		Trailer:  findTrailer(in.Videos.Results),
	}
}
