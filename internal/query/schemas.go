package query

// PostSchema exposes post fields to the list endpoints.
var PostSchema = Schema{
	Fields: []Field{
		{Name: "id", Column: "id", DocKey: "_id", Selectable: true},
		{Name: "authorId", Column: "author_id", DocKey: "authorId", Filterable: true, Selectable: true},
		{Name: "title", Column: "title", DocKey: "title", Searchable: true, Filterable: true, Sortable: true, Selectable: true},
		{Name: "content", Column: "content", DocKey: "content", Searchable: true, Selectable: true},
		{Name: "category", Column: "category", DocKey: "category", Searchable: true, Filterable: true, Sortable: true, Selectable: true},
		{Name: "images", Column: "images", DocKey: "images", Selectable: true},
		{Name: "isPremium", Column: "is_premium", DocKey: "isPremium", Kind: KindBool, Filterable: true, Selectable: true},
		{Name: "upVoteCount", Column: "up_vote_count", DocKey: "upVoteCount", Kind: KindInt, Sortable: true, Selectable: true},
		{Name: "downVoteCount", Column: "down_vote_count", DocKey: "downVoteCount", Kind: KindInt, Sortable: true, Selectable: true},
		{Name: "comments", Column: "comments", DocKey: "comments", Selectable: true},
		{Name: "createdAt", Column: "created_at", DocKey: "createdAt", Sortable: true, Selectable: true},
		{Name: "updatedAt", Column: "updated_at", DocKey: "updatedAt", Sortable: true, Selectable: true},
	},
	DefaultSort: "-createdAt",
	Always:      []string{"id", "authorId"},
}

// UserSchema exposes user fields to the list endpoints.
var UserSchema = Schema{
	Fields: []Field{
		{Name: "id", Column: "id", DocKey: "_id", Selectable: true},
		{Name: "name", Column: "name", DocKey: "name", Searchable: true, Filterable: true, Sortable: true, Selectable: true},
		{Name: "email", Column: "email", DocKey: "email", Searchable: true, Filterable: true, Sortable: true, Selectable: true},
		{Name: "phone", Column: "phone", DocKey: "phone", Searchable: true, Selectable: true},
		{Name: "address", Column: "address", DocKey: "address", Searchable: true, Selectable: true},
		{Name: "role", Column: "role", DocKey: "role", Filterable: true, Selectable: true},
		{Name: "profileImage", Column: "profile_image", DocKey: "profileImage", Selectable: true},
		{Name: "profileVerified", Column: "profile_verified", DocKey: "profileVerified", Kind: KindBool, Filterable: true, Selectable: true},
		{Name: "createdAt", Column: "created_at", DocKey: "createdAt", Sortable: true, Selectable: true},
		{Name: "updatedAt", Column: "updated_at", DocKey: "updatedAt", Sortable: true, Selectable: true},
	},
	DefaultSort: "-createdAt",
	Always:      []string{"id"},
}
