package catalog

var indianFoods = []FoodItem{
	// rice & grains
	{Name: "Basmati Rice (1 cup cooked)", Calories: 210, Protein: 4.3, Carbs: 45, Fat: 0.4, Fiber: 0.6, Category: "Grains"},
	{Name: "Brown Rice (1 cup cooked)", Calories: 216, Protein: 5, Carbs: 45, Fat: 1.8, Fiber: 3.5, Category: "Grains"},
	{Name: "Quinoa (1 cup cooked)", Calories: 222, Protein: 8, Carbs: 39, Fat: 3.6, Fiber: 5, Category: "Grains"},
	{Name: "Roti (1 medium)", Calories: 104, Protein: 3.5, Carbs: 18, Fat: 2.5, Fiber: 2.7, Category: "Grains"},
	{Name: "Naan (1 piece)", Calories: 262, Protein: 9, Carbs: 45, Fat: 5, Fiber: 2, Category: "Grains"},
	{Name: "Paratha (1 medium)", Calories: 126, Protein: 3, Carbs: 18, Fat: 4.5, Fiber: 2.5, Category: "Grains"},

	// dals & legumes
	{Name: "Moong Dal (1 cup cooked)", Calories: 212, Protein: 14.2, Carbs: 38.7, Fat: 0.8, Fiber: 15.4, Category: "Legumes"},
	{Name: "Toor Dal (1 cup cooked)", Calories: 203, Protein: 11.4, Carbs: 37, Fat: 0.7, Fiber: 11.8, Category: "Legumes"},
	{Name: "Chana Dal (1 cup cooked)", Calories: 269, Protein: 12.8, Carbs: 45, Fat: 4.3, Fiber: 12.2, Category: "Legumes"},
	{Name: "Masoor Dal (1 cup cooked)", Calories: 230, Protein: 17.9, Carbs: 39.9, Fat: 0.8, Fiber: 15.6, Category: "Legumes"},
	{Name: "Rajma (1 cup cooked)", Calories: 245, Protein: 15, Carbs: 45, Fat: 1, Fiber: 13.1, Category: "Legumes"},
	{Name: "Chole (1 cup)", Calories: 269, Protein: 14.5, Carbs: 45, Fat: 4.3, Fiber: 12.5, Category: "Legumes"},

	// vegetables
	{Name: "Aloo Sabzi (1 cup)", Calories: 134, Protein: 3.1, Carbs: 31, Fat: 0.1, Fiber: 2.9, Category: "Vegetables"},
	{Name: "Bhindi Sabzi (1 cup)", Calories: 33, Protein: 1.9, Carbs: 7.5, Fat: 0.2, Fiber: 3.2, Category: "Vegetables"},
	{Name: "Palak Sabzi (1 cup)", Calories: 41, Protein: 5.4, Carbs: 6.8, Fat: 0.7, Fiber: 4.3, Category: "Vegetables"},
	{Name: "Gobi Sabzi (1 cup)", Calories: 29, Protein: 2.3, Carbs: 5.9, Fat: 0.3, Fiber: 2.5, Category: "Vegetables"},
	{Name: "Baingan Bharta (1 cup)", Calories: 88, Protein: 2.5, Carbs: 16, Fat: 2.3, Fiber: 6.6, Category: "Vegetables"},
	{Name: "Karela Sabzi (1 cup)", Calories: 24, Protein: 2.6, Carbs: 4.3, Fat: 0.2, Fiber: 2.6, Category: "Vegetables"},

	// meat & fish
	{Name: "Chicken Curry (1 cup)", Calories: 219, Protein: 25.9, Carbs: 5.1, Fat: 10.9, Fiber: 1.4, Category: "Meat"},
	{Name: "Mutton Curry (1 cup)", Calories: 292, Protein: 25.6, Carbs: 3.9, Fat: 19.3, Fiber: 1.2, Category: "Meat"},
	{Name: "Fish Curry (1 cup)", Calories: 158, Protein: 22.1, Carbs: 4.2, Fat: 5.7, Fiber: 1.1, Category: "Fish"},
	{Name: "Tandoori Chicken (100g)", Calories: 150, Protein: 27.3, Carbs: 0, Fat: 4.1, Fiber: 0, Category: "Meat"},
	{Name: "Grilled Fish (100g)", Calories: 128, Protein: 25.4, Carbs: 0, Fat: 2.9, Fiber: 0, Category: "Fish"},

	// dairy
	{Name: "Paneer (100g)", Calories: 265, Protein: 18.3, Carbs: 1.2, Fat: 20.8, Fiber: 0, Category: "Dairy"},
	{Name: "Curd (1 cup)", Calories: 98, Protein: 11, Carbs: 12, Fat: 0.4, Fiber: 0, Category: "Dairy"},
	{Name: "Milk (1 cup)", Calories: 103, Protein: 8, Carbs: 12, Fat: 2.4, Fiber: 0, Category: "Dairy"},
	{Name: "Lassi (1 glass)", Calories: 108, Protein: 2.5, Carbs: 12, Fat: 5.5, Fiber: 0, Category: "Dairy"},

	// snacks
	{Name: "Samosa (1 piece)", Calories: 308, Protein: 5.1, Carbs: 28, Fat: 19.6, Fiber: 2.4, Category: "Snacks"},
	{Name: "Pakora (5 pieces)", Calories: 157, Protein: 4.1, Carbs: 13, Fat: 10.1, Fiber: 2.1, Category: "Snacks"},
	{Name: "Dhokla (2 pieces)", Calories: 160, Protein: 4, Carbs: 27, Fat: 4, Fiber: 2, Category: "Snacks"},
	{Name: "Idli (2 pieces)", Calories: 78, Protein: 2, Carbs: 17, Fat: 0.2, Fiber: 0.8, Category: "Snacks"},
	{Name: "Dosa (1 medium)", Calories: 168, Protein: 4, Carbs: 28, Fat: 4, Fiber: 1.2, Category: "Snacks"},
	{Name: "Upma (1 cup)", Calories: 183, Protein: 4.4, Carbs: 32, Fat: 4.6, Fiber: 1.9, Category: "Snacks"},

	// fruits
	{Name: "Apple (1 medium)", Calories: 95, Protein: 0.5, Carbs: 25, Fat: 0.3, Fiber: 4.4, Category: "Fruits"},
	{Name: "Banana (1 medium)", Calories: 105, Protein: 1.3, Carbs: 27, Fat: 0.4, Fiber: 3.1, Category: "Fruits"},
	{Name: "Mango (1 cup sliced)", Calories: 107, Protein: 1, Carbs: 28, Fat: 0.5, Fiber: 3, Category: "Fruits"},
	{Name: "Orange (1 medium)", Calories: 62, Protein: 1.2, Carbs: 15.4, Fat: 0.2, Fiber: 3.1, Category: "Fruits"},
	{Name: "Papaya (1 cup)", Calories: 55, Protein: 0.9, Carbs: 14, Fat: 0.2, Fiber: 2.5, Category: "Fruits"},

	// beverages
	{Name: "Chai (1 cup)", Calories: 40, Protein: 1.5, Carbs: 6, Fat: 1.5, Fiber: 0, Category: "Beverages"},
	{Name: "Coffee (1 cup)", Calories: 2, Protein: 0.3, Carbs: 0, Fat: 0, Fiber: 0, Category: "Beverages"},
	{Name: "Fresh Lime Water (1 glass)", Calories: 25, Protein: 0.1, Carbs: 6.5, Fat: 0, Fiber: 0.1, Category: "Beverages"},
	{Name: "Coconut Water (1 cup)", Calories: 46, Protein: 1.7, Carbs: 8.9, Fat: 0.5, Fiber: 2.6, Category: "Beverages"},
}
