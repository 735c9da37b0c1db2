package conf

// DefaultSummaryPrompt is the built-in daily summary template. Groups may
// override it per group, and the summary.prompt config key replaces it
// globally. Placeholders: {group_name}, {date}, {messages}.
const DefaultSummaryPrompt = `你是一个群聊总结助手。请根据以下群聊记录生成一份简洁的每日总结。

要求：
1. 按话题/讨论线程组织内容
2. 提取关键信息和结论
3. 保留重要的决定和待办事项
4. 使用中文输出
5. 总结要简洁明了，突出重点

群聊名称：{group_name}
日期：{date}

聊天记录：
{messages}

请生成总结：`
