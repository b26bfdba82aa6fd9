package content

import "github.com/bryan-buckman/linkpage/internal/model"

// DefaultCategories is the tree stored on first access.
func DefaultCategories() []model.Category {
	return []model.Category{
		{
			ID: "cat_1", Name: "常用工具", Icon: "globe", Order: 1,
			Subcategories: []model.Subcategory{},
			Links: []model.Link{
				{ID: "link_101", Name: "Google", URL: "https://www.google.com", Icon: "fab fa-google", Description: "全球最大的搜索引擎"},
				{ID: "link_102", Name: "YouTube", URL: "https://www.youtube.com", Icon: "fab fa-youtube", Description: "全球最大的视频分享网站"},
				{ID: "link_103", Name: "百度", URL: "https://www.baidu.com", Icon: "fas fa-search", Description: "中文搜索引擎"},
				{ID: "link_104", Name: "GitHub", URL: "https://github.com", Icon: "fab fa-github", Description: "代码托管与协作平台"},
			},
		},
		{
			ID: "cat_2", Name: "AI 助手", Icon: "robot", Order: 2,
			Subcategories: []model.Subcategory{},
			Links: []model.Link{
				{ID: "link_201", Name: "Claude", URL: "https://claude.ai", Icon: "fas fa-brain", Description: "Anthropic 开发的AI助手"},
				{ID: "link_202", Name: "Kimi", URL: "https://kimi.moonshot.cn/", Icon: "fas fa-rocket", Description: "Moonshot AI 长文本智能助手"},
				{ID: "link_203", Name: "Gemini", URL: "https://gemini.google.com", Icon: "fas fa-gem", Description: "Google 出品的多模态AI模型"},
				{ID: "link_204", Name: "ChatGPT", URL: "https://chat.openai.com", Icon: "fas fa-comments", Description: "OpenAI 旗下对话式AI"},
			},
		},
		{
			ID: "cat_3", Name: "秘密收藏", Icon: "lock", IsPrivate: true, Order: 3,
			Subcategories: []model.Subcategory{
				{
					ID: "sub_1", Name: "个人项目", IsPrivate: true,
					Links: []model.Link{
						{ID: "link_301", Name: "Cloudflare", URL: "https://dash.cloudflare.com/", Icon: "fas fa-cloud", Description: "全球网络安全与性能服务"},
					},
				},
			},
			Links: []model.Link{},
		},
	}
}
