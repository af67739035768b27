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
	"time"

	"github.com/oapi-codegen/nullable"
)

type (
	PostDto struct {
		ID           int64        `json:"id"`
		UserID       int64        `json:"userId"`
		Caption      string       `json:"caption"`
		Location     string       `json:"location"`
		ImageID      int64        `json:"imageId"`
		LikesCount   int64        `json:"likesCount"`
		Visibility   string       `json:"visibility"`
		CreationDate time.Time    `json:"creationDate"`
		Comments     []CommentDto `json:"comments"`
		Version      int64        `json:"version"`
	}

	CommentDto struct {
		ID           int64     `json:"id"`
		PostID       int64     `json:"postId"`
		UserID       int64     `json:"userId"`
		Content      string    `json:"content"`
		CreationDate time.Time `json:"creationDate"`
	}

	CreatePostDto struct {
		Caption    string `json:"caption"`
		Location   string `json:"location"`
		ImageID    int64  `json:"imageId"`
		Visibility string `json:"visibility,omitempty"`
	}

	// UpdatePostDto is the body of PUT /posts/{id}. Absent fields are kept;
	// a null caption or location clears it.
	UpdatePostDto struct {
		Caption    nullable.Nullable[string] `json:"caption,omitempty"`
		Location   nullable.Nullable[string] `json:"location,omitempty"`
		Visibility nullable.Nullable[string] `json:"visibility,omitempty"`
	}

	CreateCommentDto struct {
		Content string `json:"content"`
	}

	PageDto struct {
		Data []PostDto `json:"data"`
		Next string    `json:"next,omitempty"`
	}

	DeletedDto struct {
		ID int64 `json:"id"`
	}
)
