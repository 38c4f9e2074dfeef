package helpers

// Form DTOs bound from the server-rendered pages

type LoginForm struct {
	Username string `form:"username" binding:"required"`
	Password string `form:"password" binding:"required"`
}

type RegisterForm struct {
	Username     string `form:"username" binding:"required"`
	Email        string `form:"email"`
	Password     string `form:"password" binding:"required"`
	Confirmation string `form:"confirmation" binding:"required"`
}

// ListingForm deliberately carries no binding rules: listing validation is
// done field by field in the auction service so the form can be redisplayed
// with one message per invalid field.
type ListingForm struct {
	Title       string `form:"title"`
	Description string `form:"description"`
	Image       string `form:"image"`
	Category    string `form:"category"`
	Duration    int    `form:"duration"`
	Price       string `form:"price"`
}

type BidForm struct {
	Price string `form:"price" binding:"required"`
}

type CommentForm struct {
	Title   string `form:"title"`
	Content string `form:"content" binding:"required"`
}
