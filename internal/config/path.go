package config

const (
	//? These paths must match the paths in the embed directive

	StaticLocalDir = "static"
	StaticURLPath  = "/" + StaticLocalDir + "/"

	TemplatesLocalDir = "templates"

	TemplateLayout             = "layout.html"
	TemplateMain               = "main.html"
	TemplateMy                 = "my.html"
	TemplateLogin              = "login.html"
	TemplateNewPost            = "new-post.html"
	TemplatePost               = "post.html"
	TemplateAllCategories      = "all-categories.html"
	TemplateArticlesByCategory = "articles-by-category.html"
	TemplateNotFound           = "404.html"
)

const (
	ArticlesURLPath = "/articles/"
	MyURLPath       = "/my"
)
