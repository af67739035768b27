// Copyright 2025 Nhat-Nguyen Nguyen
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package rest

import (
	"context"
	"fmt"

	"photogram/core/post/domain"
	userdomain "photogram/core/user/domain"
	"photogram/modules/entity"
	"photogram/modules/mapper"
)

type (
	CommentMapper = mapper.Pair[domain.Comment, CommentDto]
	PostMapper    = mapper.Pair[domain.Post, PostDto]

	// UserLookup resolves the author referenced by a PostDto.
	UserLookup interface {
		GetUserByID(ctx context.Context, id entity.ID) (*userdomain.User, error)
	}
)

func NewCommentMapper() *CommentMapper {
	return mapper.NewPair(toCommentDto, fromCommentDto, mapper.Collection())
}

func toCommentDto(_ context.Context, c domain.Comment) (CommentDto, error) {
	return CommentDto{
		ID:           int64(c.ID),
		PostID:       int64(c.PostID),
		UserID:       int64(c.UserID),
		Content:      c.Content,
		CreationDate: c.CreationDate,
	}, nil
}

func fromCommentDto(_ context.Context, d CommentDto) (domain.Comment, error) {
	return domain.Comment{
		ID:           entity.ID(d.ID),
		PostID:       entity.ID(d.PostID),
		UserID:       entity.ID(d.UserID),
		Content:      d.Content,
		CreationDate: d.CreationDate,
	}, nil
}

// NewPostMapper converts posts to their wire form. Comments go through
// comments; PostDto -> Post fails when the referenced user does not exist.
func NewPostMapper(comments *CommentMapper, users UserLookup) *PostMapper {
	toDto := func(ctx context.Context, p domain.Post) (PostDto, error) {
		cs, err := comments.ForwardAll(ctx, p.Comments)
		if err != nil {
			return PostDto{}, err
		}
		return PostDto{
			ID:           int64(p.ID),
			UserID:       int64(p.UserID),
			Caption:      p.Caption,
			Location:     p.Location,
			ImageID:      int64(p.ImageID),
			LikesCount:   p.Likes,
			Visibility:   string(p.Visibility),
			CreationDate: p.CreationDate,
			Comments:     cs,
			Version:      p.Version,
		}, nil
	}

	fromDto := func(ctx context.Context, d PostDto) (domain.Post, error) {
		author, err := users.GetUserByID(ctx, entity.ID(d.UserID))
		if err != nil {
			return domain.Post{}, fmt.Errorf("post author %d: %w", d.UserID, err)
		}
		cs, err := comments.BackwardAll(ctx, d.Comments)
		if err != nil {
			return domain.Post{}, err
		}
		return domain.Post{
			ID:           entity.ID(d.ID),
			UserID:       author.ID,
			Caption:      d.Caption,
			Location:     d.Location,
			ImageID:      entity.ID(d.ImageID),
			Likes:        d.LikesCount,
			Visibility:   domain.Visibility(d.Visibility),
			CreationDate: d.CreationDate,
			Comments:     cs,
			Version:      d.Version,
		}, nil
	}

	return mapper.NewPair(toDto, fromDto, mapper.Collection())
}
