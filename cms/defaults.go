package cms

// DefaultTaxesHome is the landing content shown until the CMS has written
// taxes/home/<locale>.md. Each call returns a fresh copy.
func DefaultTaxesHome() TaxesHome {
	return TaxesHome{
		HeroTitle:    "U.S. Tax & Accounting Services You Can Trust",
		HeroSubtitle: "Professional tax preparation, bookkeeping, and business services for individuals and companies across the United States, fully online.",
		Highlights: []Highlight{
			{Text: "Certified Tax Professional"},
			{Text: "Serving clients in all 50 states"},
			{Text: "Russian and English support"},
			{Text: "Year-round assistance"},
		},
		IntroHeadline: "Welcome to Your Trusted Accounting Partner",
		IntroText: "We provide professional tax and accounting services for individuals, business owners, and non-residents across the United States. " +
			"Whether you need help filing taxes, starting a business, managing bookkeeping, or reporting cryptocurrency, we make the process simple, secure, and fully online.\n\n" +
			"Our goal is to help you stay compliant, reduce taxes, and gain peace of mind with reliable support you can trust.",
		AboutHeadline: "Your Trusted Accounting Partner",
		AboutText: "Founded by Anastasia Nolan, Certified Tax Preparer and QuickBooks ProAdvisor, our firm provides professional tax and accounting services for clients across the United States.\n\n" +
			"We specialize in helping Russian-speaking individuals, business owners, and non-residents navigate U.S. tax regulations with confidence.\n\n" +
			"Our fully online services make working with us simple, secure, and convenient, no matter where you are located.",
		Services: []ServiceCard{
			{Title: "Business Registration", Description: "Start your U.S. business with confidence. We help you register LLCs and corporations, obtain EIN numbers, and ensure full compliance from day one."},
			{Title: "Business Tax Returns", Description: "Accurate preparation and filing for LLCs, S-Corps, and C-Corps. We help minimize tax liability and keep your business compliant."},
			{Title: "Individual Tax Filing", Description: "Professional tax preparation for individuals in all 50 states. We maximize deductions and ensure accurate filing."},
			{Title: "Bookkeeping Services", Description: "Stay organized with professional bookkeeping, financial reports, and ongoing support for your business."},
			{Title: "Tax Planning", Description: "Strategic tax planning to help you legally reduce taxes and improve your financial results."},
			{Title: "Cryptocurrency Tax Services", Description: "Accurate reporting of crypto trading, investing, staking, and mining to ensure full IRS compliance."},
			{Title: "Non-Resident Tax Services", Description: "Specialized tax services for non-U.S. residents, foreign business owners, and new immigrants."},
			{Title: "Sales & Payroll Taxes", Description: "Complete management of payroll taxes and sales tax filings to keep your business compliant."},
		},
		Pricing: []PricingPlan{
			{
				Name:        "Basic",
				Price:       "$99",
				Description: "Individual tax return, simple situation.",
				Features:    []Feature{"Federal & state filing", "Standard deduction", "Email support"},
			},
			{
				Name:        "Professional",
				Price:       "$199",
				Description: "Most popular for individuals and sole proprietors.",
				Features:    []Feature{"Everything in Basic", "Itemized deductions", "Schedule C support", "Priority support"},
				Highlighted: true,
			},
			{
				Name:        "Business",
				Price:       "$499",
				Description: "Full business and multi-state support.",
				Features:    []Feature{"Everything in Professional", "Business entity returns", "Multi-state filing", "Year-round advisory"},
			},
		},
	}
}
