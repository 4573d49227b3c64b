package tiktok

// ItemListResponse is the wire shape of /api/post/item_list/
type ItemListResponse struct {
	StatusCode int       `json:"statusCode"`
	ItemList   []RawPost `json:"itemList"`
	HasMore    bool      `json:"hasMore"`
	Cursor     string    `json:"cursor"`
}

// UserDetailResponse is the wire shape of /api/user/detail/
type UserDetailResponse struct {
	StatusCode int      `json:"statusCode"`
	UserInfo   UserInfo `json:"userInfo"`
}

type UserInfo struct {
	User  UserDetail `json:"user"`
	Stats UserStats  `json:"stats"`
}

type UserDetail struct {
	ID       string `json:"id"`
	SecUID   string `json:"secUid"`
	UniqueID string `json:"uniqueId"`
	Nickname string `json:"nickname"`
	Private  bool   `json:"privateAccount"`
}

type UserStats struct {
	FollowerCount  int64 `json:"followerCount"`
	FollowingCount int64 `json:"followingCount"`
	VideoCount     int64 `json:"videoCount"`
	HeartCount     int64 `json:"heartCount"`
}

// RawPost is one item from the post list, as returned by the remote API.
// A post carries either a video or an imagePost sub-object, never both.
type RawPost struct {
	ID         string     `json:"id"`
	Desc       string     `json:"desc"`
	CreateTime int64      `json:"createTime"`
	Author     Author     `json:"author"`
	Video      *Video     `json:"video,omitempty"`
	ImagePost  *ImagePost `json:"imagePost,omitempty"`
	Stats      Stats      `json:"stats"`
}

type Author struct {
	ID           string `json:"id"`
	UniqueID     string `json:"uniqueId"`
	Nickname     string `json:"nickname"`
	AvatarThumb  string `json:"avatarThumb"`
	Signature    string `json:"signature"`
	Verified     bool   `json:"verified"`
	SecUID       string `json:"secUid"`
	PrivateAccount bool `json:"privateAccount"`
}

type Video struct {
	ID           string `json:"id"`
	Height       int    `json:"height"`
	Width        int    `json:"width"`
	Duration     int    `json:"duration"`
	Ratio        string `json:"ratio"`
	Cover        string `json:"cover"`
	PlayAddr     string `json:"playAddr"`
	DownloadAddr string `json:"downloadAddr"`
	Format       string `json:"format"`
}

type ImagePost struct {
	Title  string  `json:"title"`
	Images []Image `json:"images"`
}

type Image struct {
	ImageURL ImageURL `json:"imageURL"`
	Width    int      `json:"imageWidth"`
	Height   int      `json:"imageHeight"`
}

type ImageURL struct {
	URLList []string `json:"urlList"`
}

type Stats struct {
	DiggCount    int64 `json:"diggCount"`
	ShareCount   int64 `json:"shareCount"`
	CommentCount int64 `json:"commentCount"`
	PlayCount    int64 `json:"playCount"`
	CollectCount int64 `json:"collectCount"`
}

// PageResult is one consumed page of the post list, with the loose wire
// fields converted to strict types for the pagination loop.
type PageResult struct {
	Items   []RawPost
	HasMore bool
	Cursor  int64
}
